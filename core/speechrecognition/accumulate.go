package speechrecognition

import "strings"

// Accumulation is the text gathered during one recognition session.
type Accumulation struct {
	Final   string
	Interim string
}

// Accumulate folds a result event into acc. Final slots are appended to the
// final text, interim slots replace the previous interim tail.
func Accumulate(acc Accumulation, event ResultEvent) Accumulation {
	next := Accumulation{Final: acc.Final}
	for i := max(event.ResultIndex, 0); i < len(event.Results); i++ {
		result := event.Results[i]
		if result.IsFinal {
			next.Final = joinSegments(next.Final, result.Transcript)
		} else {
			next.Interim = joinSegments(next.Interim, result.Transcript)
		}
	}
	return next
}

// Caption is the best-effort text of the session so far.
func (a Accumulation) Caption() string {
	return joinSegments(a.Final, a.Interim)
}

// FinalText is the trimmed finalized text of the session.
func (a Accumulation) FinalText() string {
	return strings.TrimSpace(a.Final)
}

func joinSegments(head, tail string) string {
	tail = strings.TrimSpace(tail)
	switch {
	case tail == "":
		return head
	case head == "":
		return tail
	}
	return head + " " + tail
}
