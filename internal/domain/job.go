package domain

// Fingerprint identifies a logically unique posting across sources and runs.
type Fingerprint string

// Source tags the extractor a posting came from.
type Source string

const (
	SourceBayt       Source = "Bayt.com"
	SourceLinkedIn   Source = "LinkedIn"
	SourceGreenhouse Source = "Greenhouse"
	SourceLever      Source = "Lever"

	SourceSmartRecruiters Source = "SmartRecruiters"
)

// UnknownCompany is used when a listing has no parsable company.
const UnknownCompany = "Unknown"

// Posting is one job listing pulled from a source. It only lives for one run.
type Posting struct {
	Title       string
	Company     string
	Location    string
	URL         string
	Source      Source
	Score       int
	Tags        []string // boost rules that fired
	Fingerprint Fingerprint
}
