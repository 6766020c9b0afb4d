package coin

// Recognized on-chain type names. Everything the classifiers match lives
// here; no other file carries type-name literals.
const (
	// CoinInfoTypePrefix opens the coin metadata resource type. The generic
	// argument between the angle brackets is the coin type.
	CoinInfoTypePrefix = "0x1::coin::CoinInfo<"

	// CoinStoreTypePrefix opens the per-account coin store resource type.
	CoinStoreTypePrefix = "0x1::coin::CoinStore<"

	// WithdrawEventType and DepositEventType are the two recognized event
	// shapes. Any other event type is silently skipped.
	WithdrawEventType = "0x1::coin::WithdrawEvent"
	DepositEventType  = "0x1::coin::DepositEvent"

	// AptosCoinType is the chain's native gas coin.
	AptosCoinType = "0x1::aptos_coin::AptosCoin"

	// GasFeeActivityType labels the synthetic gas-fee activity. It is
	// reserved: no real on-chain event carries this type.
	GasFeeActivityType = "0x1::aptos_coin::GasFeeEvent"
)

// Sentinel creation/sequence numbers for the synthetic gas-fee activity.
// On-chain GUIDs are never negative, so these cannot collide with a real
// event key.
const (
	GasFeeCreationNumber int64 = -1
	GasFeeSequenceNumber int64 = -1
)

// MaxEntryFunctionLength bounds the stored entry function identifier.
const MaxEntryFunctionLength = 100
