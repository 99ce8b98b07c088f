package listener

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"tcpagent/internal/claude"
	"tcpagent/internal/config"
	"tcpagent/internal/connectors"
	gmailconnector "tcpagent/internal/connectors/gmail"
	imapconnector "tcpagent/internal/connectors/imap"
	"tcpagent/internal/pipeline"
	"tcpagent/internal/storage"
)

// Service polls a mailbox, processes new charter party emails and
// refreshes the combined workbook after each cycle.
type Service struct {
	db  *storage.DB
	cfg config.Config
}

func NewService(db *storage.DB, cfg config.Config) *Service {
	return &Service{db: db, cfg: cfg}
}

func (s *Service) Run(ctx context.Context) error {
	for {
		if err := s.runCycle(ctx); err != nil {
			fmt.Printf("listener cycle error: %v\n", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(s.cfg.MailListenerIntervalSec) * time.Second):
		}
	}
}

func (s *Service) runCycle(ctx context.Context) error {
	provider := strings.ToLower(strings.TrimSpace(s.cfg.MailListenerProvider))
	mailConnector, err := s.makeConnector(provider)
	if err != nil {
		return err
	}

	fetchService := connectors.NewFetchService(s.db, s.cfg.RawMailDir, mailConnector)
	fetchResult, err := fetchService.FetchAndStore(s.cfg.MailListenerLabel, s.cfg.MailListenerFetchMax)
	if err != nil {
		return err
	}

	processor := pipeline.NewProcessingService(s.db, s.cfg, claude.NewClient(s.cfg))
	processedEmails, contracts, err := processor.ProcessPending(ctx, s.cfg.MailListenerProcessBatch, provider)
	if err != nil {
		return err
	}

	if s.cfg.MailListenerAutoExport && contracts > 0 {
		if err := s.exportAll(); err != nil {
			return err
		}
	}

	_ = s.db.SetMetadata("listener:lastCycleAt", time.Now().UTC().Format(time.RFC3339))

	fmt.Printf("listener cycle done provider=%s fetched=%d stored=%d processed=%d contracts=%d\n",
		provider, fetchResult.Fetched, fetchResult.Stored, processedEmails, contracts)
	return nil
}

// exportAll rewrites the combined workbook from every stored contract.
func (s *Service) exportAll() error {
	rows, err := s.db.ListContracts()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	records := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		record, err := storage.ContractRecord(row)
		if err != nil {
			return err
		}
		records = append(records, record)
	}

	outputPath := filepath.Join(s.cfg.OutputDir, "listener", "tcp_contracts.xlsx")
	return pipeline.ExportContractsXLSX(records, outputPath)
}

func (s *Service) makeConnector(provider string) (connectors.MailConnector, error) {
	switch provider {
	case "gmail":
		return gmailconnector.NewConnector(s.cfg)
	case "imap":
		return imapconnector.NewConnector(s.cfg)
	default:
		return nil, fmt.Errorf("unsupported listener provider: %s", provider)
	}
}
