package dlis

import (
	"github.com/e-zl/dlisio/stream"
)

const (
	recordTypeFrame    = 0
	recordTypeNoFormat = 1
)

// FindFData parses enough of each implicit record in tells to recover its
// OBNAME, grouping the corresponding start offsets by fingerprint (spec
// §4.6). tells is normally StreamOffsets.Implicits from a prior
// FindOffsets call.
//
// A corrupted or malformed record is logged CRITICAL and skipped; it
// never aborts the whole call.
func FindFData(s stream.Stream, tells []int64, eh ErrorHandler) map[string][]int64 {
	out := make(map[string][]int64)

	var rec Record
	for _, tell := range tells {
		if err := ExtractInto(s, tell, obnameSizeMax, &rec, eh); err != nil {
			eh.Log(CRITICAL, "dlis.FindFData (indexing implicit records)", "fdata record corrupted",
				"4.6 FData indexer", "record is skipped",
				DebugInfo{Ptell: s.Ptell(), Ltell: tell, Extra: err.Error()})
			continue
		}

		if rec.IsEncrypted() {
			continue
		}
		if rec.Type != recordTypeFrame && rec.Type != recordTypeNoFormat {
			continue
		}
		if len(rec.Data) == 0 {
			continue
		}

		obname, n, ok := decodeObname(rec.Data)
		if !ok || n > len(rec.Data) {
			eh.Log(CRITICAL, "dlis.FindFData (indexing implicit records)", "decoded OBNAME extends past record data",
				"4.6 FData indexer / 6.4 OBNAME", "record is skipped",
				DebugInfo{Ptell: s.Ptell(), Ltell: tell})
			continue
		}

		var namespace string
		if rec.Type == recordTypeFrame {
			namespace = "FRAME"
		} else {
			namespace = "NO-FORMAT"
		}

		fp := obname.Fingerprint(namespace)
		out[fp] = append(out[fp], tell)
	}

	return out
}
