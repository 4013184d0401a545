package scope

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/scope-mapper/constants"
	"github.com/joseph-ayodele/scope-mapper/internal/entity"
)

// DefaultWork is the work description used when a line names only a room.
const DefaultWork = "General work"

// ParseFailedNote marks scopes produced by the fallback path.
const ParseFailedNote = "Parsing failed"

// splitPatterns separate the room part from the work part, tried in order.
var splitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(.+?)\s*-\s*(.+)`), // Kitchen - cabinet replacement
	regexp.MustCompile(`(?i)^(.+?):\s*(.+)`),    // Kitchen: cabinet replacement
	regexp.MustCompile(`(?i)^(.+?)\s+(.+)`),     // Kitchen cabinet replacement
}

// Parser turns a free-text scope into WorkScope records.
type Parser struct {
	logger *slog.Logger
	// classifyRoom is swappable in tests.
	classifyRoom func(text string) (constants.RoomType, string, bool)
}

func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger, classifyRoom: constants.MatchRoomType}
}

// Parse emits one WorkScope per non-blank line, numbered from 1. A line that cannot
// be parsed still yields a scope, tagged with ParseFailedNote.
func (p *Parser) Parse(text string) []entity.WorkScope {
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}
	if len(lines) == 0 {
		p.logger.Warn("empty work scope text")
		return []entity.WorkScope{}
	}

	scopes := make([]entity.WorkScope, 0, len(lines))
	for i, ln := range lines {
		ws, err := p.parseLine(ln, i+1)
		if err != nil {
			p.logger.Warn("scope line parse failed", "line", ln, "priority", i+1, "error", err)
			ws = entity.WorkScope{
				RoomName:        ln,
				RoomType:        constants.OtherRoom,
				WorkDescription: DefaultWork,
				WorkTypes:       []constants.WorkType{constants.OtherWork},
				Priority:        i + 1,
				Notes:           ParseFailedNote,
			}
		}
		scopes = append(scopes, ws)
	}
	p.logger.Debug("work scope parsed", "lines", len(lines), "scopes", len(scopes))
	return scopes
}

func (p *Parser) parseLine(line string, priority int) (ws entity.WorkScope, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse line: %v", r)
		}
	}()

	room, work, split := SplitLine(line)

	// A line without a work part is classified on its own text so the
	// placeholder description cannot pick the room type.
	classifyOn := line
	if split {
		classifyOn = room + " " + work
	}
	roomType, keyword, _ := p.classifyRoom(classifyOn)
	workTypes := constants.MatchWorkTypes(work)

	p.logger.Debug("scope line parsed",
		"room", room, "room_type", roomType, "keyword", keyword, "work_types", workTypes)

	return entity.WorkScope{
		RoomName:        room,
		RoomType:        roomType,
		WorkDescription: work,
		WorkTypes:       workTypes,
		Priority:        priority,
	}, nil
}

// SplitLine separates a scope line into room and work parts. split is false when no
// separator pattern applies, in which case the whole line is the room and the work
// is DefaultWork.
func SplitLine(line string) (room, work string, split bool) {
	for _, re := range splitPatterns {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		room, work = strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if room != "" {
			return room, work, true
		}
		break
	}
	return line, DefaultWork, false
}
