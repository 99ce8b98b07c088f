package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tcpagent/internal/claude"
	"tcpagent/internal/config"
	"tcpagent/internal/connectors"
	gmailconnector "tcpagent/internal/connectors/gmail"
	imapconnector "tcpagent/internal/connectors/imap"
	"tcpagent/internal/listener"
	"tcpagent/internal/pipeline"
	"tcpagent/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	ctx := context.Background()

	cmd := os.Args[1]
	switch cmd {
	case "process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "contract pdf path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" {
			must(fmt.Errorf("--file is required"))
		}
		processor := pipeline.NewProcessingService(db, cfg, claude.NewClient(cfg))
		contractID, usage, err := processor.ProcessPDFFile(ctx, *file)
		must(err)
		fmt.Printf("processed %s contractId=%d tokens=%d/%d cost=$%.4f\n",
			filepath.Base(*file), contractID, usage.InputTokens, usage.OutputTokens, usage.CostUSD)
	case "process:all":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		dir := fs.String("dir", cfg.ContractsDir, "directory of contract pdfs")
		_ = fs.Parse(os.Args[2:])
		processor := pipeline.NewProcessingService(db, cfg, claude.NewClient(cfg))
		processed, failed, err := processor.ProcessDirectory(ctx, *dir)
		must(err)
		fmt.Printf("batch done processed=%d failed=%d\n", processed, len(failed))
		for _, name := range failed {
			fmt.Printf("  failed: %s\n", name)
		}
	case "query":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		vessel := fs.String("vessel", "", "vessel name substring")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*vessel) == "" {
			must(fmt.Errorf("--vessel is required"))
		}
		rows, err := db.QueryContractsByVessel(*vessel)
		must(err)
		if len(rows) == 0 {
			fmt.Printf("no contracts match vessel %q\n", *vessel)
			return
		}
		for _, row := range rows {
			fmt.Printf("contract id=%d vessel=%s date=%s source=%s\n",
				row.ID, deref(row.VesselName), deref(row.ContractDate), row.SourceFile)
		}
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", filepath.Join(cfg.OutputDir, "tcp_contracts.xlsx"), "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		rows, err := db.ListContracts()
		must(err)
		records := make([]map[string]any, 0, len(rows))
		for _, row := range rows {
			record, err := storage.ContractRecord(row)
			must(err)
			records = append(records, record)
		}
		must(pipeline.ExportContractsXLSX(records, *out))
		fmt.Printf("exported %d contracts to %s\n", len(records), *out)
	case "export:contract":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		contractID := fs.Int("contractId", 0, "internal contract id")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *contractID == 0 || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--contractId and --out are required"))
		}
		row, err := db.GetContractByID(*contractID)
		must(err)
		if row == nil {
			must(fmt.Errorf("contract not found: id=%d", *contractID))
		}
		record, err := storage.ContractRecord(*row)
		must(err)
		must(pipeline.ExportContractXLSX(record, *out))
		fmt.Printf("exported contract id=%d to %s\n", *contractID, *out)
	case "mail:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", "gmail", "gmail|imap")
		label := fs.String("label", "INBOX", "mailbox/label")
		max := fs.Int("max", 50, "max messages")
		_ = fs.Parse(os.Args[2:])
		conn, err := makeConnector(cfg, *provider)
		must(err)
		fetch := connectors.NewFetchService(db, cfg.RawMailDir, conn)
		result, err := fetch.FetchAndStore(*label, *max)
		must(err)
		fmt.Printf("mail fetch done provider=%s fetched=%d stored=%d\n", *provider, result.Fetched, result.Stored)
	case "mail:process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", "gmail", "gmail|imap")
		messageID := fs.String("messageId", "", "specific message-id")
		batch := fs.Int("batch", 20, "batch size")
		_ = fs.Parse(os.Args[2:])
		processor := pipeline.NewProcessingService(db, cfg, claude.NewClient(cfg))
		if strings.TrimSpace(*messageID) != "" {
			res, err := processor.ProcessByProviderMessageID(ctx, *provider, *messageID)
			must(err)
			fmt.Printf("processed email id=%d contracts=%d cost=$%.4f\n", res.EmailID, res.Contracts, res.Usage.CostUSD)
			return
		}
		processedEmails, processedContracts, err := processor.ProcessPending(ctx, *batch, *provider)
		must(err)
		fmt.Printf("processed pending emails=%d contracts=%d\n", processedEmails, processedContracts)
	case "mail:listen":
		s := listener.NewService(db, cfg)
		must(s.Run(ctx))
	case "stats":
		contracts, err := db.CountContracts()
		must(err)
		usage, runs, err := db.TotalUsage()
		must(err)
		fmt.Printf("contracts=%d runs=%d tokens=%d/%d cost=$%.4f\n",
			contracts, runs, usage.InputTokens, usage.OutputTokens, usage.CostUSD)
		if lastCycle, err := db.GetMetadata("listener:lastCycleAt"); err == nil && lastCycle != nil {
			fmt.Printf("listener lastCycleAt=%s\n", *lastCycle)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func makeConnector(cfg config.Config, provider string) (connectors.MailConnector, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gmail":
		return gmailconnector.NewConnector(cfg)
	case "imap":
		return imapconnector.NewConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func usage() {
	fmt.Println("usage: tcpagent <command>")
	fmt.Println("commands:")
	fmt.Println("  process --file=./sample_contracts/tcp_001.pdf")
	fmt.Println("  process:all [--dir=./sample_contracts]")
	fmt.Println("  query --vessel=\"northern star\"")
	fmt.Println("  export:xlsx [--out=./out/tcp_contracts.xlsx]")
	fmt.Println("  export:contract --contractId=1 --out=./out/contract_1.xlsx")
	fmt.Println("  mail:fetch --provider=gmail|imap --label=INBOX --max=50")
	fmt.Println("  mail:process --provider=gmail|imap [--messageId=...] [--batch=20]")
	fmt.Println("  mail:listen")
	fmt.Println("  stats")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
