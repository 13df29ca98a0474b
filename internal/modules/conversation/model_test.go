// README: Stage transition table tests.
package conversation

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Stage
		want     bool
	}{
		// happy-path forward transitions
		{StageGreeting, StageOfferHelp, true},
		{StageOfferHelp, StagePreference, true},
		{StageOfferHelp, StageEnded, true},
		{StagePreference, StagePersonalize, true},
		{StagePreference, StageResult, true},
		{StagePersonalize, StageResult, true},
		{StageResult, StageFollowup, true},
		{StageEnded, StageFollowup, true},
		// followup is the only self-loop
		{StageFollowup, StageFollowup, true},
		// invalid: no revisiting earlier stages
		{StageResult, StagePreference, false},
		{StageFollowup, StageOfferHelp, false},
		{StageEnded, StageOfferHelp, false},
		{StagePersonalize, StagePersonalize, false},
		// invalid: skipping stages
		{StageGreeting, StageResult, false},
		{StageOfferHelp, StageResult, false},
		{StageOfferHelp, StagePersonalize, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestIntentPredicates(t *testing.T) {
	declines := []string{"no", "No thanks", "nope", "not now", "Not NOW please"}
	for _, in := range declines {
		if !isDecline(in) {
			t.Errorf("isDecline(%q) = false, want true", in)
		}
	}
	accepts := []string{"yes", "sure", "absolutely", "I'd love that"}
	for _, in := range accepts {
		if isDecline(in) {
			t.Errorf("isDecline(%q) = true, want false", in)
		}
	}

	if !wantsPersonalized("please personalize it for me") {
		t.Error("expected 'personalize' to route to personalization")
	}
	if !wantsPersonalized("something personal") {
		t.Error("expected 'personal' to route to personalization")
	}
	// Preference words without "personal" default to the full list.
	if wantsPersonalized("I'd like to relax") {
		t.Error("'relax' must not route to personalization")
	}
}
