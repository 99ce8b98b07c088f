package pipeline

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tcpagent/internal"
	"tcpagent/internal/config"
	"tcpagent/internal/pdftext"
	"tcpagent/internal/standardize"
	"tcpagent/internal/storage"
)

// FieldExtractor turns contract text into a raw field mapping. Satisfied
// by the claude client; tests substitute a stub.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, contractText string) (map[string]any, internal.ExtractionUsage, error)
}

type ProcessingService struct {
	db        *storage.DB
	cfg       config.Config
	extractor FieldExtractor
	std       *standardize.Standardizer
}

func NewProcessingService(db *storage.DB, cfg config.Config, extractor FieldExtractor) *ProcessingService {
	std, _ := standardize.New(standardize.DefaultFieldTable(), standardize.Policy{
		VesselPrefixBare: cfg.VesselPrefixBare,
	})
	return &ProcessingService{db: db, cfg: cfg, extractor: extractor, std: std}
}

type ProcessResult struct {
	EmailID   int
	Contracts int
	Usage     internal.ExtractionUsage
}

func (s *ProcessingService) ProcessByProviderMessageID(ctx context.Context, provider, messageID string) (ProcessResult, error) {
	email, err := s.db.MustEmailByProviderMessageID(provider, messageID)
	if err != nil {
		return ProcessResult{}, err
	}
	return s.ProcessEmail(ctx, email)
}

func (s *ProcessingService) ProcessPending(ctx context.Context, limit int, provider string) (int, int, error) {
	pending, err := s.db.ListEmailsByStatus("fetched", limit)
	if err != nil {
		return 0, 0, err
	}
	processedEmails := 0
	processedContracts := 0
	for _, email := range pending {
		if provider != "" && email.Provider != provider {
			continue
		}
		res, err := s.ProcessEmail(ctx, email)
		if err != nil {
			return processedEmails, processedContracts, err
		}
		processedEmails++
		processedContracts += res.Contracts
	}
	return processedEmails, processedContracts, nil
}

func (s *ProcessingService) ProcessEmail(ctx context.Context, email internal.EmailRow) (ProcessResult, error) {
	start := time.Now()
	raw, err := os.ReadFile(email.RawRef)
	if err != nil {
		return ProcessResult{}, err
	}

	sources, subject, text, attachmentNames, err := ExtractSourcesFromEmailRaw(raw)
	if err != nil {
		return ProcessResult{}, err
	}

	detect := DetectCharterParty(firstNonEmpty(subject, email.Subject), text, attachmentNames, s.cfg.DetectThreshold)
	if err := s.db.ClearEmailContracts(email.ID); err != nil {
		return ProcessResult{}, err
	}

	if !detect.IsContract {
		_ = s.db.UpdateEmailStatus(email.ID, "skipped")
		_ = s.db.InsertRun(traceID(), &email.ID, nil, internal.ExtractionUsage{},
			map[string]float64{"totalMs": float64(time.Since(start).Milliseconds()), "detectScore": detect.Score},
			map[string]int{"sources": 0, "contracts": 0, "failed": 0})
		return ProcessResult{EmailID: email.ID, Contracts: 0}, nil
	}

	var totalUsage internal.ExtractionUsage
	contracts := 0
	failed := 0
	var lastContractID int
	var lastErr error
	for _, source := range sources {
		sourceFile := source.Name
		if source.Kind != internal.SourcePDFAttachment {
			sourceFile = fmt.Sprintf("%s:%s", email.Provider, email.MessageID)
		}
		contractID, usage, err := s.processSource(ctx, source.Text, &email.ID, sourceFile)
		totalUsage = addUsage(totalUsage, usage)
		if err != nil {
			fmt.Printf("extraction failed for %s (%s): %v\n", sourceFile, source.Kind, err)
			failed++
			lastErr = err
			continue
		}
		contracts++
		lastContractID = int(contractID)
	}

	status := "processed"
	if contracts == 0 {
		status = "error"
	}
	if err := s.db.UpdateEmailStatus(email.ID, status); err != nil {
		return ProcessResult{}, err
	}

	var contractIDRef *int
	if contracts > 0 {
		contractIDRef = &lastContractID
	}
	_ = s.db.InsertRun(traceID(), &email.ID, contractIDRef, totalUsage,
		map[string]float64{"totalMs": float64(time.Since(start).Milliseconds()), "detectScore": detect.Score},
		map[string]int{"sources": len(sources), "contracts": contracts, "failed": failed})

	if contracts == 0 && lastErr != nil {
		return ProcessResult{EmailID: email.ID, Usage: totalUsage}, lastErr
	}
	return ProcessResult{EmailID: email.ID, Contracts: contracts, Usage: totalUsage}, nil
}

// ProcessPDFFile runs a standalone contract PDF through extraction and
// standardization, outside the mail flow.
func (s *ProcessingService) ProcessPDFFile(ctx context.Context, path string) (int64, internal.ExtractionUsage, error) {
	start := time.Now()
	text, err := pdftext.ExtractFile(path)
	if err != nil {
		return 0, internal.ExtractionUsage{}, err
	}
	if strings.TrimSpace(text) == "" {
		return 0, internal.ExtractionUsage{}, fmt.Errorf("no text extracted from %s", path)
	}

	contractID, usage, err := s.processSource(ctx, text, nil, filepath.Base(path))
	if err != nil {
		return 0, usage, err
	}

	id := int(contractID)
	_ = s.db.InsertRun(traceID(), nil, &id, usage,
		map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())},
		map[string]int{"sources": 1, "contracts": 1, "failed": 0})
	return contractID, usage, nil
}

// ProcessDirectory walks every PDF in a directory. Failures are reported
// and skipped so one bad file does not stop the batch.
func (s *ProcessingService) ProcessDirectory(ctx context.Context, dir string) (int, []string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return 0, nil, err
	}
	sort.Strings(paths)

	processed := 0
	var failedFiles []string
	for _, path := range paths {
		fmt.Printf("processing %s\n", filepath.Base(path))
		if _, _, err := s.ProcessPDFFile(ctx, path); err != nil {
			fmt.Printf("  failed: %v\n", err)
			failedFiles = append(failedFiles, filepath.Base(path))
			continue
		}
		processed++
	}
	return processed, failedFiles, nil
}

func (s *ProcessingService) processSource(ctx context.Context, text string, emailID *int, sourceFile string) (int64, internal.ExtractionUsage, error) {
	fields, usage, err := s.extractor.ExtractFields(ctx, text)
	if err != nil {
		return 0, usage, err
	}

	record := s.std.Standardize(fields)
	processedAt := time.Now().UTC().Format(time.RFC3339)

	contractID, err := s.db.InsertContract(emailID, sourceFile, processedAt, record, fields)
	if err != nil {
		return 0, usage, err
	}
	return contractID, usage, nil
}

func addUsage(a, b internal.ExtractionUsage) internal.ExtractionUsage {
	return internal.ExtractionUsage{
		InputTokens:  a.InputTokens + b.InputTokens,
		OutputTokens: a.OutputTokens + b.OutputTokens,
		CostUSD:      a.CostUSD + b.CostUSD,
	}
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
