package ocr

import (
	"math"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/scope-mapper/internal/entity"
	"github.com/joseph-ayodele/scope-mapper/internal/measure"
)

// tesseract TSV columns
const (
	colLevel  = 0
	colPage   = 1
	colBlock  = 2
	colPar    = 3
	colLine   = 4
	colLeft   = 6
	colTop    = 7
	colWidth  = 8
	colHeight = 9
	colConf   = 10
	colText   = 11
	numCols   = 12

	wordLevel = "5"
)

// lineKey identifies one tesseract text line.
type lineKey struct {
	page, block, par, line string
}

// textRun collects the words of one line.
type textRun struct {
	words                    []string
	confSum                  float64
	left, top, right, bottom float64
}

func (r *textRun) add(text string, conf, left, top, width, height float64) {
	if len(r.words) == 0 {
		r.left, r.top, r.right, r.bottom = left, top, left+width, top+height
	} else {
		r.left = min(r.left, left)
		r.top = min(r.top, top)
		r.right = max(r.right, left+width)
		r.bottom = max(r.bottom, top+height)
	}
	r.words = append(r.words, text)
	r.confSum += conf
}

// parseTSV turns tesseract TSV output into one item per text line, in reading order.
// Words below minConf (0..1) and words that clean to nothing are dropped before
// grouping. A line's confidence is the mean of its words and its box is their union.
func parseTSV(out []byte, minConf float64) []entity.OCRItem {
	var (
		order []lineKey
		runs  = map[lineKey]*textRun{}
	)
	for i, ln := range strings.Split(string(out), "\n") {
		if i == 0 || strings.TrimSpace(ln) == "" {
			continue
		}
		cols := strings.SplitN(strings.TrimRight(ln, "\r"), "\t", numCols)
		if len(cols) < numCols || cols[colLevel] != wordLevel {
			continue
		}
		conf, err := strconv.ParseFloat(cols[colConf], 64)
		if err != nil || conf < 0 {
			continue
		}
		conf = round3(conf / 100)
		if conf < minConf {
			continue
		}
		text := strings.TrimSpace(cols[colText])
		if measure.CleanText(text) == "" {
			continue
		}
		key := lineKey{cols[colPage], cols[colBlock], cols[colPar], cols[colLine]}
		run, ok := runs[key]
		if !ok {
			run = &textRun{}
			runs[key] = run
			order = append(order, key)
		}
		run.add(text, conf, atof(cols[colLeft]), atof(cols[colTop]), atof(cols[colWidth]), atof(cols[colHeight]))
	}

	items := make([]entity.OCRItem, 0, len(order))
	for _, key := range order {
		run := runs[key]
		original := strings.Join(run.words, " ")
		pos := measure.PositionFromRect(run.left, run.top, run.right-run.left, run.bottom-run.top)
		items = append(items, entity.OCRItem{
			Text:         measure.CleanText(original),
			OriginalText: original,
			Confidence:   round3(run.confSum / float64(len(run.words))),
			Position:     pos,
			BBoxArea:     measure.BBoxArea(pos),
		})
	}
	return items
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func atof(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
