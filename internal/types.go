package internal

// FieldKind tags a contract attribute with the normalizer that applies to it.
type FieldKind string

const (
	KindDate     FieldKind = "date"
	KindVessel   FieldKind = "vessel_name"
	KindCurrency FieldKind = "currency"
	KindInteger  FieldKind = "integer"
	KindText     FieldKind = "text"
)

// Outcome reports how a field value was resolved: parsed into canonical
// form, passed through because no strategy applied, or absent.
type Outcome string

const (
	OutcomeNormalized Outcome = "normalized"
	OutcomeFallback   Outcome = "fallback"
	OutcomeAbsent     Outcome = "absent"
)

type FieldResult struct {
	Value   any
	Outcome Outcome
}

func Normalized(v any) FieldResult { return FieldResult{Value: v, Outcome: OutcomeNormalized} }
func Fallback(v any) FieldResult   { return FieldResult{Value: v, Outcome: OutcomeFallback} }
func Absent() FieldResult          { return FieldResult{Outcome: OutcomeAbsent} }

type ContractSourceKind string

const (
	SourcePDFAttachment ContractSourceKind = "pdf_attachment"
	SourceEmailText     ContractSourceKind = "email_text"
	SourceEmailHTML     ContractSourceKind = "email_html"
	SourcePDFFile       ContractSourceKind = "pdf_file"
)

// ContractSource is one block of contract text pulled out of an intake
// channel, ready for the extraction client.
type ContractSource struct {
	Kind ContractSourceKind
	Name string
	Text string
}

// Metadata keys the pipeline attaches to a contract record.
const (
	MetaSourceFile  = "_source_file"
	MetaProcessedAt = "_processed_at"
)

type ContractRow struct {
	ID           int
	EmailID      *int
	SourceFile   string
	ProcessedAt  string
	VesselName   *string
	ContractDate *string
	RawJSON      string
	FieldsJSON   string
}

type EmailRow struct {
	ID         int
	Provider   string
	MessageID  string
	Subject    string
	Sender     string
	ReceivedAt string
	Hash       string
	Status     string
	RawRef     string
}

type FetchedMailMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}

// ExtractionUsage is the token/cost accounting for one extraction call.
type ExtractionUsage struct {
	InputTokens  int
	OutputTokens int
	CostUSD      float64
}
