package prompts_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/sant0-9/coldpitch/internal/model"
	"github.com/sant0-9/coldpitch/internal/prompts"
)

func baseRequest() *model.Request {
	return &model.Request{
		Bio:       "Growth consultant who helped 20 teams",
		Offer:     "A 30 days onboarding audit",
		Target:    "Jane Doe, VP Product",
		Company:   "Acme",
		Industry:  "SaaS",
		PainPoint: "trial users never activate",
	}
}

func TestStrategySelection(t *testing.T) {
	testCases := map[string]struct {
		newToField bool
		companies  string
		want       prompts.StrategyKind
	}{
		"new to field wins over companies": {
			newToField: true,
			companies:  "Stripe, Notion",
			want:       prompts.StrategyNewProfessional,
		},
		"companies make experienced": {
			companies: "Stripe",
			want:      prompts.StrategyExperienced,
		},
		"blank companies are generic": {
			companies: "   ",
			want:      prompts.StrategyGeneric,
		},
		"only separators are generic": {
			companies: " , ,",
			want:      prompts.StrategyGeneric,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			req := baseRequest()
			req.IsNewToField = tc.newToField
			req.CompaniesWorkedWith = tc.companies

			p := prompts.Build(req)
			gt.Equal(t, p.Strategy, tc.want)
		})
	}
}

func TestNewProfessionalPrompt(t *testing.T) {
	req := baseRequest()
	req.IsNewToField = true
	req.CompaniesWorkedWith = "Stripe, Notion"

	system := prompts.Build(req).System
	gt.S(t, system).Contains("POSITIONING FOR NEW PROFESSIONALS:")
	gt.S(t, system).Contains("SOCIAL PROOF FOR NEW PROFESSIONALS:")
	gt.S(t, system).Contains("TONE: Enthusiastic, knowledgeable")
	gt.S(t, system).NotContains("Use specific company names:")
	gt.S(t, system).NotContains("Reference specific companies:")
	gt.S(t, system).NotContains("Stripe")
}

func TestExperiencedPromptNormalizesCompanies(t *testing.T) {
	req := baseRequest()
	req.CompaniesWorkedWith = "A, B ,  C"

	p := prompts.Build(req)
	gt.Equal(t, p.Strategy, prompts.StrategyExperienced)
	gt.Equal(t, p.Companies, []string{"A", "B", "C"})
	gt.S(t, p.System).Contains("POSITIONING FOR EXPERIENCED PROFESSIONALS:\n- Use specific company names: A, B, C\n")
	gt.S(t, p.System).Contains("SOCIAL PROOF FOR EXPERIENCED PROFESSIONALS:\n- Reference specific companies: A, B, C\n")
	gt.S(t, p.System).NotContains("B ,")
	gt.S(t, p.System).Contains("TONE: Authoritative, experienced, and results-focused.")
}

func TestGenericPrompt(t *testing.T) {
	req := baseRequest()
	req.CompaniesWorkedWith = "  "

	system := prompts.BuildSystem(req)
	gt.S(t, system).Contains("POSITIONING FOR GENERIC APPROACH:\n- Focus on methodology and proven processes")
	gt.S(t, system).Contains("SOCIAL PROOF FOR GENERIC APPROACH:")
	gt.S(t, system).Contains("TONE: Professional, knowledgeable, and focused on delivering results.")
}

func TestSystemPromptSections(t *testing.T) {
	system := prompts.BuildSystem(baseRequest())

	for _, want := range []string{
		"You are a world-class cold email copywriter",
		"CRITICAL REQUIREMENTS:",
		"EMAIL STRUCTURE (MANDATORY):\nSubject: [Specific, curiosity-driven, under 50 characters]",
		"PSYCHOLOGICAL TRIGGERS (USE 5+):",
		`- Curiosity: "What most {industry} companies miss..."`,
		"- Exclusivity: \"Only working with 3 companies this quarter\"",
		"CRITICAL: Make every sentence count.",
	} {
		gt.S(t, system).Contains(want)
	}
}

func TestIndustryFacts(t *testing.T) {
	t.Run("known industry", func(t *testing.T) {
		req := baseRequest()
		req.Industry = "eCommerce"
		system := prompts.BuildSystem(req)
		gt.S(t, system).Contains("INDUSTRY INTELLIGENCE FOR ECOMMERCE:")
		gt.S(t, system).Contains("- Specific Challenges: cart abandonment optimization, customer lifetime value, inventory forecasting, seasonal demand planning")
	})

	t.Run("unknown industry falls back to SaaS facts", func(t *testing.T) {
		req := baseRequest()
		req.Industry = "Healthcare"
		system := prompts.BuildSystem(req)
		gt.S(t, system).Contains("INDUSTRY INTELLIGENCE FOR HEALTHCARE:")
		gt.S(t, system).Contains("- Key Metrics: activation rate, feature adoption, customer lifetime value, churn rate, expansion revenue")
		gt.S(t, system).Contains("- Solutions: onboarding optimization, feature discovery, customer success automation, product analytics")
	})

	t.Run("blank industry becomes SaaS", func(t *testing.T) {
		req := baseRequest()
		req.Industry = ""
		p := prompts.Build(req)
		gt.S(t, p.System).Contains("INDUSTRY INTELLIGENCE FOR SAAS:")
		gt.S(t, p.User).Contains("INDUSTRY: SaaS\n")
		gt.Equal(t, req.Industry, "")
	})

	gt.Equal(t, prompts.Industries(), []string{"SaaS", "eCommerce", "Agencies", "Startups"})
	gt.Equal(t, prompts.LookupFacts("saas").Name, "SaaS")
}

func TestUserPrompt(t *testing.T) {
	req := baseRequest()
	req.PainPoint = "churn <50%> & \"friction\""
	user := prompts.BuildUser(req)

	gt.True(t, strings.HasPrefix(user, "Create a high-converting cold email using these details:\n\nRECIPIENT: Jane Doe, VP Product\nCOMPANY: Acme\n"))
	gt.S(t, user).Contains("PAIN POINT: churn <50%> & \"friction\"\n")
	gt.S(t, user).Contains("MY CREDENTIALS: Growth consultant who helped 20 teams\n\nCRITICAL REQUIREMENTS:")
	gt.S(t, user).Contains("10. Create genuine curiosity and FOMO")
	gt.S(t, user).NotContains("CAMPAIGN GOAL:")
	gt.S(t, user).NotContains("PREFERRED TONE:")

	req.Goal = "Schedule a meeting"
	req.Tone = "Direct"
	user = prompts.BuildUser(req)
	gt.S(t, user).Contains("MY CREDENTIALS: Growth consultant who helped 20 teams\nCAMPAIGN GOAL: Schedule a meeting\nPREFERRED TONE: Direct\n\nCRITICAL REQUIREMENTS:")
}

func TestParseCompanies(t *testing.T) {
	gt.Equal(t, prompts.ParseCompanies("A, B ,  C"), []string{"A", "B", "C"})
	gt.Equal(t, prompts.ParseCompanies(",,Stripe,,"), []string{"Stripe"})
	gt.A(t, prompts.ParseCompanies("")).Length(0)
}

func TestAnalyze(t *testing.T) {
	s := prompts.Analyze("Independent CONSULTANT with a proven System", "Coaching that lifts revenue 20% in 6 weeks")
	gt.True(t, s.Bio.IsConsultant)
	gt.True(t, s.Bio.IsFreelancer)
	gt.True(t, s.Bio.HasMethodology)
	gt.False(t, s.Bio.HasExperience)
	gt.True(t, s.Offer.HasSpecificResults)
	gt.True(t, s.Offer.HasTimeframe)
	gt.True(t, s.Offer.IsService)
	gt.False(t, s.Offer.HasProcess)

	gt.Equal(t, prompts.Analyze("", ""), prompts.Signals{})
}
