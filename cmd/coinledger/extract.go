package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"coinledger/internal/coin"
	"coinledger/internal/config"
	"coinledger/internal/indexer"
	"coinledger/internal/model"
	"coinledger/internal/storage"
)

func runExtract(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadExtract(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.In == "" {
		return fmt.Errorf("input path is required")
	}
	if cfg.OutDir == "" {
		return fmt.Errorf("output dir is required")
	}
	switch cfg.OnError {
	case indexer.OnErrorHalt, indexer.OnErrorSkip:
	default:
		return fmt.Errorf("unknown on-error policy: %s", cfg.OnError)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inputFile, err := os.Open(cfg.In)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer inputFile.Close()

	sink := storage.NewJsonlStorage(cfg.OutDir)

	errWriter, err := newJSONLWriter(cfg.Errors)
	if err != nil {
		return err
	}
	defer errWriter.Close()

	logger.Info("extract start",
		zap.String("in", cfg.In),
		zap.String("out_dir", cfg.OutDir),
		zap.String("errors", cfg.Errors),
		zap.String("on_error", cfg.OnError),
	)

	scanner := bufio.NewScanner(inputFile)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	insertedAt := time.Now().UTC()

	var total, extracted, failed int
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		total++

		var txn model.Transaction
		if err := json.Unmarshal(line, &txn); err != nil {
			failed++
			writeExtractError(errWriter, model.ExtractError{Error: err.Error()})
			if cfg.OnError == indexer.OnErrorHalt {
				return fmt.Errorf("parse transaction: %w", err)
			}
			continue
		}

		batch, err := coin.ExtractTransaction(&txn, insertedAt)
		if err != nil {
			failed++
			logger.Error("extract transaction failed",
				zap.Uint64("version", uint64(txn.Version)),
				zap.Error(err),
			)
			writeExtractError(errWriter, model.ExtractError{
				TransactionVersion: int64(txn.Version),
				Error:              err.Error(),
			})
			if cfg.OnError == indexer.OnErrorHalt {
				return err
			}
			continue
		}

		if err := sink.PutCoinBatch(ctx, batch); err != nil {
			return err
		}
		extracted++
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan input: %w", err)
	}

	logger.Info("extract complete",
		zap.Int("total", total),
		zap.Int("extracted", extracted),
		zap.Int("failed", failed),
	)

	return nil
}

type jsonlWriter struct {
	file   *os.File
	writer *bufio.Writer
}

func newJSONLWriter(path string) (*jsonlWriter, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	return &jsonlWriter{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

func (w *jsonlWriter) Write(value interface{}) error {
	line, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if _, err := w.writer.Write(line); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	return nil
}

func (w *jsonlWriter) Close() error {
	if w == nil {
		return nil
	}
	if err := w.writer.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

func writeExtractError(writer *jsonlWriter, errRecord model.ExtractError) {
	if writer == nil {
		return
	}
	_ = writer.Write(errRecord)
}
