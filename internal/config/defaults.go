package config

import "time"

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// terms builds single-term rules from alternating term, weight pairs.
func terms(pairs ...any) []Rule {
	out := make([]Rule, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		term := pairs[i].(string)
		out = append(out, Rule{Tag: term, Weight: pairs[i+1].(int), Any: []string{term}})
	}
	return out
}

// Default is the entry-level full stack profile the tool started with.
func Default() Config {
	var cfg Config

	cfg.Search.Keywords = []string{
		"full stack developer",
		"software engineer",
		"backend developer",
		"frontend developer",
		"React developer",
		"Node.js developer",
		"Next.js developer",
		"Python developer",
		"junior software engineer",
		"graduate software engineer",
	}
	cfg.Search.Locations = []string{
		"United Arab Emirates",
		"Oman",
		"Qatar",
		"Saudi Arabia",
	}

	cfg.Scoring.MinScore = 1
	// One rule per term: every matching term adds its own weight.
	cfg.Scoring.Boost = terms(
		"junior", 2, "graduate", 2, "entry level", 2, "entry-level", 2,
		"fresh", 2, "0-2 years", 2, "0-1 year", 2, "trainee", 2,
		"react", 1, "next.js", 2, "nextjs", 1, "node", 1,
		"node.js", 1, "nodejs", 1, "python", 1, "typescript", 2,
		"javascript", 1, "full stack", 1, "fullstack", 1,
		"express", 1, "postgresql", 1, "prisma", 2, "tailwind", 1,
		"rest api", 1, "jwt", 1, "socket.io", 2,
	)
	cfg.Scoring.Penalty = terms(
		"senior", -3, "sr.", -3, "sr ", -3, "lead", -3,
		"principal", -3, "architect", -3, "head of", -3,
		"director", -3, "manager", -3, "vp ", -3,
		"vice president", -3, "10 years", -3, "8 years", -3,
		"7 years", -3, "6 years", -3, "5 years", -3,
	)
	cfg.Scoring.Reject = []string{
		"c++", "embedded", "sap", "salesforce", "mainframe", "cobol",
		"mechanical", "civil", "electrical", "accounting",
		"marketing", "sales", "driver", "cleaner", "secretary",
		"commission", "telesales", "door to door", "odoo functional",
		"emirati", "uae nationals", "national talent", "nationals only",
		"php", "wordpress", "laravel",
	}

	cfg.Sources.Bayt.Enabled = true
	cfg.Sources.Bayt.Country = "uae"
	cfg.Sources.LinkedIn.Enabled = true
	cfg.Sources.LinkedIn.PostedWithin = "r86400"
	cfg.Sources.LinkedIn.Experience = "1,2"

	cfg.HTTP = HTTP{
		Timeout:      15 * time.Second,
		UserAgent:    DefaultUserAgent,
		MaxListings:  20,
		MaxBodyBytes: 4 << 20,
		Pace:         2 * time.Second,
	}

	cfg.Notify = Notify{
		MaxChars:      3900, // Telegram caps at 4096
		SendDelay:     1100 * time.Millisecond,
		MaxPerMessage: 10,
		SignOff:       "💪 Good luck!",
	}

	cfg.Ledger = Ledger{Backend: "json", Path: "seen_jobs.json"}
	cfg.Log = Log{Level: "info", Format: "console"}

	return cfg
}
