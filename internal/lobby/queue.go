package lobby

// Queue is the public matchmaking slot: at most one player waits, and the
// next arrival is paired with them.
type Queue struct {
	waiting *Member
}

// Enqueue pairs m with the waiting player if there is one, otherwise m
// takes the slot. A player already waiting stays waiting.
func (q *Queue) Enqueue(m Member) (Member, bool) {
	if q.waiting == nil || q.waiting.Player.ID == m.Player.ID {
		q.waiting = &m
		return Member{}, false
	}
	opp := *q.waiting
	q.waiting = nil
	return opp, true
}

// Remove clears the slot if playerID holds it.
func (q *Queue) Remove(playerID string) bool {
	if q.waiting == nil || q.waiting.Player.ID != playerID {
		return false
	}
	q.waiting = nil
	return true
}

func (q *Queue) Len() int {
	if q.waiting == nil {
		return 0
	}
	return 1
}
