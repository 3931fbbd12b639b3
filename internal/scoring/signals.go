package scoring

import "github.com/joelkehle/ideavalidation/internal/lexical"

// Text-derived signals used when the caller supplied no structured value.
var (
	problemLanguage = lexical.MustCompile(
		lexical.Lit("struggle", 1, "struggle"), lexical.Lit("frustrat", 1, "frustration"), lexical.Lit("waste", 1, "wasted time or money"),
		lexical.Lit("pain", 1, "pain point"), lexical.Lit("expensive", 1, "cost burden"), lexical.Lit("hours", 0.5, "time sink"),
		lexical.Lit("can't find", 1, "unmet search"), lexical.Lit("no way to", 1, "missing capability"), lexical.Lit("manual", 0.5, "manual process"),
	)
	noveltyLanguage = lexical.MustCompile(
		lexical.Lit("patent", 1, "patent"), lexical.Lit("proprietary", 1, "proprietary"), lexical.Lit("novel", 1, "novel"),
		lexical.Lit("first ", 1, "first mover claim"), lexical.Lit("unique", 1, "unique"), lexical.Lit("unlike", 1, "contrast with incumbents"),
		lexical.Lit("breakthrough", 1, "breakthrough"), lexical.Lit("exclusive", 1, "exclusive access"), lexical.Lit("only ", 0.5, "exclusivity claim"),
	)
	sharingLanguage = lexical.MustCompile(
		lexical.Lit("share", 1, "sharing"), lexical.Lit("invite", 1, "invites"), lexical.Lit("referral", 1, "referrals"),
		lexical.Lit("friends", 1, "friends"), lexical.Lit("social", 1, "social"), lexical.Lit("community", 1, "community"),
	)
)

// genericFeatures are table-stakes claims that do not differentiate.
var genericFeatures = []string{
	"user-friendly", "easy to use", "intuitive", "affordable", "dashboard", "notifications",
	"mobile-friendly", "ai-powered", "all-in-one", "seamless", "simple interface", "integrations",
	"real-time", "cloud-based", "customizable", "collaboration",
}

func problemBoost(text string) float64 {
	s, _ := problemLanguage.Score(text)
	return minf(s, 3)
}

func noveltyHits(text string) float64 {
	s, _ := noveltyLanguage.Score(text)
	return s
}

func genericFeatureCount(text string) int {
	return lexical.CountAny(text, genericFeatures...)
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
