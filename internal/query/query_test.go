package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestBuild tests the query plan for a company.
func TestBuild(t *testing.T) {
	t.Parallel()

	t.Run("builds targeted and general queries in order", func(t *testing.T) {
		t.Parallel()

		plan := Build("Acme GmbH", "")

		wantTargeted := []string{
			"Acme GmbH contact email",
			"Acme GmbH kontakt email",
			"Acme GmbH impressum",
			"Acme GmbH about us",
			"site:acmegmbh.com contact",
			"site:acmegmbh.de contact",
		}
		if diff := cmp.Diff(wantTargeted, plan.Targeted); diff != "" {
			t.Errorf("targeted queries mismatch (-want +got):\n%s", diff)
		}

		wantGeneral := []string{
			"Acme GmbH email",
			"Acme GmbH mail",
			"Acme GmbH info@",
			"Acme GmbH contact@",
		}
		if diff := cmp.Diff(wantGeneral, plan.General); diff != "" {
			t.Errorf("general queries mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("uses the configured secondary TLD", func(t *testing.T) {
		t.Parallel()

		plan := Build("Acme", ".fr")
		last := plan.Targeted[len(plan.Targeted)-1]
		if last != "site:acme.fr contact" {
			t.Errorf("unexpected site query: %q", last)
		}
	})

	t.Run("Queries returns the phase slice", func(t *testing.T) {
		t.Parallel()

		plan := Build("Acme", "")
		if len(plan.Queries(PhaseTargeted)) != 6 {
			t.Errorf("expected 6 targeted queries, got %d", len(plan.Queries(PhaseTargeted)))
		}
		if len(plan.Queries(PhaseGeneral)) != 4 {
			t.Errorf("expected 4 general queries, got %d", len(plan.Queries(PhaseGeneral)))
		}
		if plan.Queries(Phase(0)) != nil {
			t.Error("expected nil for unknown phase")
		}
	})
}

// TestPhaseString tests phase labels.
func TestPhaseString(t *testing.T) {
	t.Parallel()

	if PhaseTargeted.String() != "targeted" {
		t.Errorf("unexpected label %q", PhaseTargeted.String())
	}
	if PhaseGeneral.String() != "general" {
		t.Errorf("unexpected label %q", PhaseGeneral.String())
	}
	if Phase(7).String() != "unknown" {
		t.Errorf("unexpected label %q", Phase(7).String())
	}
}
