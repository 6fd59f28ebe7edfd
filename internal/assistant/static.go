package assistant

import (
	"context"
	"strings"
)

type topic struct {
	keywords []string
	answer   string
}

// Topics are tried in order; the first keyword found in the lower-cased
// question wins.
var topics = []topic{
	{
		keywords: []string{"mess timing", "meal timing", "breakfast", "lunch", "dinner", "snacks", "food timing"},
		answer:   "Mess timings: breakfast 7:00-10:00, lunch 12:00-15:00, snacks 16:00-18:00 and dinner 19:00-22:00. The weekly menu is on the Mess Menu page.",
	},
	{
		keywords: []string{"menu", "mess", "food"},
		answer:   "The mess menu is updated weekly by the mess staff. Open the Mess Menu page to see today's meals and the full week.",
	},
	{
		keywords: []string{"roommate", "my room", "room number"},
		answer:   "Your room, floor and roommates are listed under My Room once an admin has assigned you a room.",
	},
	{
		keywords: []string{"book", "assign", "room", "vacancy", "available"},
		answer:   "Rooms are assigned by the admin office. Ask the admin for a room assignment; a room is only offered while it has a free bed.",
	},
	{
		keywords: []string{"check in", "check-in", "check out", "check-out", "attendance", "curfew", "late"},
		answer:   "Security records your check-in and check-out at the gate each day. Please make sure you are checked in before the gate closes.",
	},
	{
		keywords: []string{"complaint", "broken", "repair", "issue", "problem"},
		answer:   "You can raise a complaint from the Complaints page. The admin team will update its status as it is handled.",
	},
	{
		keywords: []string{"fee", "payment", "rent", "price", "pay"},
		answer:   "Room rent is charged monthly. Your payment status is shown on your room assignment; contact the admin office for receipts.",
	},
	{
		keywords: []string{"hostel", "register", "commission", "owner"},
		answer:   "Hostel owners can register their property from the Register Hostel page. Listings appear publicly after admin approval.",
	},
	{
		keywords: []string{"hello", "hi", "hey"},
		answer:   "Hi! I'm the DormMate assistant. Ask me about rooms, mess timings, attendance or complaints.",
	},
}

const fallback = "I'm not sure about that. I can help with rooms, mess timings and menu, attendance, complaints and hostel registration."

type static struct{}

// NewStatic answers from a fixed topic table without any network call.
func NewStatic() Assistant { return static{} }

func (static) Backend() string { return BackendStatic }

func (static) Reply(ctx context.Context, req Request) (string, error) {
	msg, err := normalize(req)
	if err != nil {
		return "", err
	}
	return Answer(msg), nil
}

// Answer returns the canned answer for q.
func Answer(q string) string {
	q = strings.ToLower(q)
	for _, t := range topics {
		for _, k := range t.keywords {
			if containsWord(q, k) {
				return t.answer
			}
		}
	}
	return fallback
}

// containsWord matches k as a substring, except that short keywords must
// stand alone so "hi" does not match "this".
func containsWord(q, k string) bool {
	if len(k) > 3 {
		return strings.Contains(q, k)
	}
	for _, f := range strings.FieldsFunc(q, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		if f == k {
			return true
		}
	}
	return false
}
