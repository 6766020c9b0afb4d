package model

import "sort"

// CoinBatch carries the four output collections for one or more
// transactions, ready for a storage sink.
type CoinBatch struct {
	Activities      []CoinActivity
	Infos           []CoinInfo
	Balances        []CoinBalance
	CurrentBalances map[CurrentBalanceKey]CurrentCoinBalance
}

// Merge folds another batch into this one. Current balances obey
// latest-version-wins per key; the other collections append in order.
func (b *CoinBatch) Merge(other CoinBatch) {
	b.Activities = append(b.Activities, other.Activities...)
	b.Infos = append(b.Infos, other.Infos...)
	b.Balances = append(b.Balances, other.Balances...)
	if b.CurrentBalances == nil && len(other.CurrentBalances) > 0 {
		b.CurrentBalances = make(map[CurrentBalanceKey]CurrentCoinBalance, len(other.CurrentBalances))
	}
	for key, balance := range other.CurrentBalances {
		existing, ok := b.CurrentBalances[key]
		if ok && existing.LastTransactionVersion > balance.LastTransactionVersion {
			continue
		}
		b.CurrentBalances[key] = balance
	}
}

// Size returns the total record count across the four collections.
func (b CoinBatch) Size() int {
	return len(b.Activities) + len(b.Infos) + len(b.Balances) + len(b.CurrentBalances)
}

// SortedCurrentBalances returns the current balances in (owner, coin type)
// order for deterministic output.
func (b CoinBatch) SortedCurrentBalances() []CurrentCoinBalance {
	out := make([]CurrentCoinBalance, 0, len(b.CurrentBalances))
	for _, balance := range b.CurrentBalances {
		out = append(out, balance)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OwnerAddress != out[j].OwnerAddress {
			return out[i].OwnerAddress < out[j].OwnerAddress
		}
		return out[i].CoinType < out[j].CoinType
	})
	return out
}
