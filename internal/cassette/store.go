package cassette

import "github.com/roach88/rewind/internal/tape"

// interactionStore holds the two ordered sequences a cassette owns:
// recorded (loaded from storage at open, never mutated in place) and
// fresh (appended during the session, insertion order preserved).
type interactionStore struct {
	recorded []tape.Interaction
	fresh    []tape.Interaction
}

// record appends an interaction to the fresh sequence. All calls
// during the session are retained in call order; nothing is deduped
// here.
func (s *interactionStore) record(interaction tape.Interaction) {
	s.fresh = append(s.fresh, interaction)
}

// merged computes the eject-time sequence. With dropOverlapping, every
// recorded interaction whose fingerprint matches a fresh one is
// removed, then fresh is appended. Without it the result is recorded
// followed by fresh, unfiltered. Order within each part is preserved
// either way, so the freshest recording for a fingerprint always sorts
// last; playback advances through same-fingerprint interactions in
// sequence order and sticks on the last one.
func (s *interactionStore) merged(dropOverlapping bool, matchOn []tape.MatchAttribute) []tape.Interaction {
	out := make([]tape.Interaction, 0, len(s.recorded)+len(s.fresh))

	if !dropOverlapping || len(s.fresh) == 0 {
		out = append(out, s.recorded...)
		return append(out, s.fresh...)
	}

	freshPrints := make(map[string]bool, len(s.fresh))
	for _, interaction := range s.fresh {
		if fp, err := tape.Fingerprint(interaction.Request, matchOn); err == nil {
			freshPrints[fp] = true
		}
	}

	for _, interaction := range s.recorded {
		fp, err := tape.Fingerprint(interaction.Request, matchOn)
		if err == nil && freshPrints[fp] {
			continue
		}
		out = append(out, interaction)
	}
	return append(out, s.fresh...)
}

// fold moves the merged sequence into recorded and clears fresh.
// Called after a successful persist so a repeated eject has nothing
// new to write.
func (s *interactionStore) fold(merged []tape.Interaction) {
	s.recorded = merged
	s.fresh = nil
}
