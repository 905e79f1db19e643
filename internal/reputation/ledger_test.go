package reputation

import "testing"

func TestFirstContribution(t *testing.T) {
	l := NewLedger()
	l.Record("reporter-1", 85, 1000)

	info := l.Get("reporter-1")
	if info == nil {
		t.Fatal("expected contributor info after first contribution")
	}
	if info.TotalContributions != 1 {
		t.Errorf("total = %d, want 1", info.TotalContributions)
	}
	if info.DataQualityAverage != 85 {
		t.Errorf("average = %d, want 85", info.DataQualityAverage)
	}
	if info.ReputationScore != 85 {
		t.Errorf("reputation = %d, want 85", info.ReputationScore)
	}
	if info.LastContribution != 1000 {
		t.Errorf("last contribution = %d, want 1000", info.LastContribution)
	}
	if info.VerificationCount != 1 {
		t.Errorf("verification count = %d, want 1", info.VerificationCount)
	}
}

func TestRunningAverageTruncates(t *testing.T) {
	l := NewLedger()
	l.Record("reporter-1", 100, 1)
	l.Record("reporter-1", 85, 2)

	info := l.Get("reporter-1")
	// (100*1 + 85) / 2 = 92 (truncated from 92.5)
	if info.DataQualityAverage != 92 {
		t.Errorf("average = %d, want 92", info.DataQualityAverage)
	}

	l.Record("reporter-1", 70, 3)
	info = l.Get("reporter-1")
	// (92*2 + 70) / 3 = 254/3 = 84 (truncated)
	if info.DataQualityAverage != 84 {
		t.Errorf("average = %d, want 84", info.DataQualityAverage)
	}
}

func TestReputationMonotonicity(t *testing.T) {
	l := NewLedger()

	scores := []uint8{40, 0, 100, 63, 77}
	var prevReputation uint32
	var prevTotal uint32

	for i, score := range scores {
		l.Record("reporter-1", score, uint64(i+1))
		info := l.Get("reporter-1")

		if info.ReputationScore < prevReputation {
			t.Fatalf("reputation decreased: %d -> %d", prevReputation, info.ReputationScore)
		}
		if info.TotalContributions != prevTotal+1 {
			t.Fatalf("total contributions = %d, want %d", info.TotalContributions, prevTotal+1)
		}
		prevReputation = info.ReputationScore
		prevTotal = info.TotalContributions
	}

	info := l.Get("reporter-1")
	if info.ReputationScore != 40+0+100+63+77 {
		t.Errorf("reputation = %d, want %d", info.ReputationScore, 40+0+100+63+77)
	}
	if info.LastContribution != 5 {
		t.Errorf("last contribution = %d, want 5", info.LastContribution)
	}
}

func TestGetUnknownReporter(t *testing.T) {
	l := NewLedger()
	if l.Get("nobody") != nil {
		t.Error("expected nil for unknown reporter")
	}
}

func TestGetReturnsCopy(t *testing.T) {
	l := NewLedger()
	l.Record("reporter-1", 50, 1)

	info := l.Get("reporter-1")
	info.ReputationScore = 0

	if l.Get("reporter-1").ReputationScore != 50 {
		t.Error("mutating the returned copy changed ledger state")
	}
}

func TestReportersAreIndependent(t *testing.T) {
	l := NewLedger()
	l.Record("a", 90, 1)
	l.Record("b", 10, 2)

	if l.Get("a").ReputationScore != 90 {
		t.Error("reporter a affected by reporter b")
	}
	if l.Get("b").ReputationScore != 10 {
		t.Error("reporter b affected by reporter a")
	}
	if l.Len() != 2 {
		t.Errorf("len = %d, want 2", l.Len())
	}
}
