package mapping

import (
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/scope-mapper/constants"
)

const (
	exactScore    = 1.0
	substringBase = 0.8
	substringSpan = 0.1
	roomTypeScore = 0.6

	similarityThreshold = 0.3
	similarityWeight    = 0.5
)

// Candidate is the best score one room group earned against a scope.
type Candidate struct {
	GroupIndex     int
	RoomIdentifier string
	Score          float64
	Method         constants.MatchMethod
}

// ScoreRoom rates roomID against a scope's room name and type, keeping the highest
// rule that applies. ok is false when no rule applies.
func ScoreRoom(roomName string, roomType constants.RoomType, roomID string) (score float64, method constants.MatchMethod, ok bool) {
	name := strings.ToLower(roomName)
	id := strings.ToLower(roomID)

	if name == id {
		return exactScore, constants.MatchExact, true
	}
	if strings.Contains(id, name) || strings.Contains(name, id) {
		ln, li := utf8.RuneCountInString(name), utf8.RuneCountInString(id)
		return substringBase + substringSpan*float64(max(ln, li))/float64(ln+li), constants.MatchSubstring, true
	}
	if hasRoomKeyword(roomType, id) {
		score, method, ok = roomTypeScore, constants.MatchRoomTypeMethod, true
	}
	if r := Ratio(name, id); r > similarityThreshold && r*similarityWeight > score {
		score, method, ok = r*similarityWeight, constants.MatchSimilarity, true
	}
	return score, method, ok
}

// BestMatch scores every group and returns the highest candidate. Ties go to the group
// encountered first.
func BestMatch(roomName string, roomType constants.RoomType, groups []Group) (Candidate, bool) {
	var best Candidate
	found := false
	for i, g := range groups {
		score, method, ok := ScoreRoom(roomName, roomType, g.RoomIdentifier)
		if !ok {
			continue
		}
		if !found || score > best.Score {
			best = Candidate{GroupIndex: i, RoomIdentifier: g.RoomIdentifier, Score: score, Method: method}
			found = true
		}
	}
	return best, found
}

// MatchMethod names the rule tier linking roomName to roomID. It is derived from the
// inputs alone and reports similarity for any pair the first three tiers reject.
func MatchMethod(roomName string, roomType constants.RoomType, roomID string) constants.MatchMethod {
	name := strings.ToLower(roomName)
	id := strings.ToLower(roomID)
	switch {
	case name == id:
		return constants.MatchExact
	case strings.Contains(id, name) || strings.Contains(name, id):
		return constants.MatchSubstring
	case hasRoomKeyword(roomType, id):
		return constants.MatchRoomTypeMethod
	default:
		return constants.MatchSimilarity
	}
}

func hasRoomKeyword(roomType constants.RoomType, id string) bool {
	for _, kw := range constants.RoomKeywords(roomType) {
		if strings.Contains(id, kw) {
			return true
		}
	}
	return false
}
