package selection

import (
	"sort"

	"github.com/questx-lab/quest-engine/internal/entity"
	"github.com/questx-lab/quest-engine/pkg/crypto"
	"github.com/questx-lab/quest-engine/pkg/errorx"
	"golang.org/x/exp/slices"
)

// Selector picks at most target winners from candidates. It never modifies
// the candidates slice.
type Selector interface {
	Select(candidates []entity.Participant, target int) []entity.Participant
}

func New(method entity.SelectionMethodType) (Selector, error) {
	switch method {
	case entity.SelectionFCFS:
		return fcfsSelector{}, nil
	case entity.SelectionRandom:
		return randomSelector{shuffle: crypto.Shuffle[entity.Participant]}, nil
	case entity.SelectionLeaderboard:
		return leaderboardSelector{}, nil
	}

	return nil, errorx.New(errorx.BadRequest, "Invalid selection method %s", method)
}

// Candidates returns the participants which can still become winners: they
// completed every required task and were neither selected nor disqualified.
func Candidates(participants []entity.Participant) []entity.Participant {
	result := []entity.Participant{}
	for _, p := range participants {
		if p.IsWinner || !slices.Contains(entity.EligibleStatuses, p.Status) {
			continue
		}

		result = append(result, p)
	}

	return result
}

type fcfsSelector struct{}

// Select orders by completion time, then join time, then id.
func (fcfsSelector) Select(candidates []entity.Participant, target int) []entity.Participant {
	sorted := clone(candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := &sorted[i], &sorted[j]
		if c := compareCompletedAt(a, b); c != 0 {
			return c < 0
		}

		if !a.JoinedAt.Equal(b.JoinedAt) {
			return a.JoinedAt.Before(b.JoinedAt)
		}

		return a.ID < b.ID
	})

	return take(sorted, target)
}

type randomSelector struct {
	shuffle func([]entity.Participant)
}

func (s randomSelector) Select(candidates []entity.Participant, target int) []entity.Participant {
	shuffled := clone(candidates)
	s.shuffle(shuffled)
	return take(shuffled, target)
}

type leaderboardSelector struct{}

// Select orders by privilege points descending, then completion time, then id.
func (leaderboardSelector) Select(candidates []entity.Participant, target int) []entity.Participant {
	sorted := clone(candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := &sorted[i], &sorted[j]
		if a.TotalPrivilegePoints != b.TotalPrivilegePoints {
			return a.TotalPrivilegePoints > b.TotalPrivilegePoints
		}

		if c := compareCompletedAt(a, b); c != 0 {
			return c < 0
		}

		return a.ID < b.ID
	})

	return take(sorted, target)
}

// compareCompletedAt puts participants without completion time last.
func compareCompletedAt(a, b *entity.Participant) int {
	switch {
	case a.CompletedAt.Valid && !b.CompletedAt.Valid:
		return -1
	case !a.CompletedAt.Valid && b.CompletedAt.Valid:
		return 1
	case !a.CompletedAt.Valid && !b.CompletedAt.Valid:
		return 0
	case a.CompletedAt.Time.Before(b.CompletedAt.Time):
		return -1
	case b.CompletedAt.Time.Before(a.CompletedAt.Time):
		return 1
	}

	return 0
}

func clone(ps []entity.Participant) []entity.Participant {
	result := make([]entity.Participant, len(ps))
	copy(result, ps)
	return result
}

func take(ps []entity.Participant, n int) []entity.Participant {
	if n <= 0 {
		return []entity.Participant{}
	}

	if n > len(ps) {
		n = len(ps)
	}

	return ps[:n]
}
