package domain

// Vote is a cast vote fragment. It has no fund reference.
type Vote struct {
	FragmentID  string  `db:"fragment_id"`
	Caster      string  `db:"caster"`
	Proposal    int32   `db:"proposal"`
	VoteplanID  string  `db:"voteplan_id"`
	Time        float64 `db:"time"`
	Choice      *int16  `db:"choice"`
	RawFragment string  `db:"raw_fragment"`
}
