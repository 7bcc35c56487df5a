package prompts

import (
	"log/slog"
	"strings"
)

// BioSignals are keyword hints found in the sender bio
type BioSignals struct {
	HasExperience  bool `yaml:"has_experience"`
	HasResults     bool `yaml:"has_results"`
	HasMethodology bool `yaml:"has_methodology"`
	IsConsultant   bool `yaml:"is_consultant"`
	IsFreelancer   bool `yaml:"is_freelancer"`
}

// OfferSignals are keyword hints found in the offer
type OfferSignals struct {
	HasSpecificResults bool `yaml:"has_specific_results"`
	HasTimeframe       bool `yaml:"has_timeframe"`
	HasProcess         bool `yaml:"has_process"`
	IsService          bool `yaml:"is_service"`
}

// Signals is the bio/offer analysis. It is informational and does not
// change which strategy is selected.
type Signals struct {
	Bio   BioSignals   `yaml:"bio"`
	Offer OfferSignals `yaml:"offer"`
}

// Analyze runs case-insensitive substring checks over bio and offer
func Analyze(bio, offer string) Signals {
	b := strings.ToLower(bio)
	o := strings.ToLower(offer)

	return Signals{
		Bio: BioSignals{
			HasExperience:  containsAny(b, "experience", "worked", "helped"),
			HasResults:     containsAny(b, "increase", "growth", "revenue", "roi"),
			HasMethodology: containsAny(b, "process", "method", "system"),
			IsConsultant:   containsAny(b, "consultant", "advisor", "specialist"),
			IsFreelancer:   containsAny(b, "freelance", "independent", "contractor"),
		},
		Offer: OfferSignals{
			HasSpecificResults: containsAny(o, "%", "increase", "revenue"),
			HasTimeframe:       containsAny(o, "days", "weeks", "months"),
			HasProcess:         containsAny(o, "step", "process", "method"),
			IsService:          containsAny(o, "service", "consulting", "coaching"),
		},
	}
}

func (s Signals) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("bio_experience", s.Bio.HasExperience),
		slog.Bool("bio_results", s.Bio.HasResults),
		slog.Bool("bio_methodology", s.Bio.HasMethodology),
		slog.Bool("bio_consultant", s.Bio.IsConsultant),
		slog.Bool("bio_freelancer", s.Bio.IsFreelancer),
		slog.Bool("offer_results", s.Offer.HasSpecificResults),
		slog.Bool("offer_timeframe", s.Offer.HasTimeframe),
		slog.Bool("offer_process", s.Offer.HasProcess),
		slog.Bool("offer_service", s.Offer.IsService),
	)
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
