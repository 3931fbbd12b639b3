package dna

import "testing"

func TestClassifyPhysicalSubscriptionEarlyExit(t *testing.T) {
	d := Classify("Monthly subscription box delivering artisanal coffee beans from small roasters to your doorstep for $35/month")
	if d.BusinessModel != ModelPhysicalSubscription {
		t.Fatalf("business model = %q, want %q", d.BusinessModel, ModelPhysicalSubscription)
	}
	if d.Industry != "food_beverage" {
		t.Fatalf("industry = %q, want food_beverage", d.Industry)
	}
	if d.SubIndustry != "subscription_food" {
		t.Fatalf("sub-industry = %q, want subscription_food", d.SubIndustry)
	}
}

func TestClassifyPhysicalSubscriptionIgnoresSoftwareWords(t *testing.T) {
	for _, text := range []string{
		"Subscription box delivering physical products for SaaS founders",
		"Monthly subscription box of software engineering books shipped to your doorstep",
	} {
		if got := Classify(text).BusinessModel; got != ModelPhysicalSubscription {
			t.Errorf("Classify(%q).BusinessModel = %q, want %q", text, got, ModelPhysicalSubscription)
		}
	}
}

func TestClassifyCustomerTypePriority(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"A marketplace for businesses to hire freelancers", CustomerMarketplace},
		{"White-label wellness app offered through employers", CustomerB2B2C},
		{"Scheduling software for small business owners", CustomerB2B},
		{"A journaling app for teenagers", CustomerB2C},
	}
	for _, tc := range cases {
		if got := Classify(tc.text).CustomerType; got != tc.want {
			t.Errorf("Classify(%q).CustomerType = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestClassifyIndustryTieBreakFirstDeclared(t *testing.T) {
	// one technology hit ("software") and one healthcare hit ("clinic")
	d := Classify("software for a clinic")
	if d.Industry != "technology" {
		t.Fatalf("industry = %q, want technology (first declared wins ties)", d.Industry)
	}
}

func TestClassifyLowSignalDefaults(t *testing.T) {
	d := Classify("")
	if d.Industry != IndustryGeneral || d.BusinessModel != ModelServices || d.CustomerType != CustomerB2C {
		t.Fatalf("unexpected defaults: %+v", d)
	}
	if d.Confidence != 0.5 {
		t.Fatalf("confidence = %v, want 0.5", d.Confidence)
	}
}

func TestClassifyConfidenceBounds(t *testing.T) {
	long := ""
	for i := 0; i < 200; i++ {
		long += "b2b saas dashboard for healthcare clinics with paying customers. "
	}
	for _, text := range []string{"", "x", long} {
		c := Classify(text).Confidence
		if c < 0.5 || c > 0.95 {
			t.Fatalf("confidence %v out of bounds for len %d", c, len(text))
		}
	}
}

func TestClassifyIndependentChecks(t *testing.T) {
	d := Classify("Telehealth platform for patients, already launched with paying customers nationwide")
	if d.RegulatoryComplexity != LevelHigh {
		t.Errorf("regulatory = %q, want high", d.RegulatoryComplexity)
	}
	if d.Stage != StageLaunched {
		t.Errorf("stage = %q, want launched", d.Stage)
	}
	if d.Scale != ScaleNational {
		t.Errorf("scale = %q, want national", d.Scale)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	text := "A two-sided marketplace connecting dog walkers with busy pet owners in my city"
	first := Classify(text)
	for i := 0; i < 10; i++ {
		again := Classify(text)
		if again.Industry != first.Industry || again.BusinessModel != first.BusinessModel || again.Confidence != first.Confidence {
			t.Fatalf("non-deterministic classification: %+v vs %+v", first, again)
		}
	}
	if first.NetworkEffects != NetworkStrong {
		t.Fatalf("network effects = %q, want strong", first.NetworkEffects)
	}
}
