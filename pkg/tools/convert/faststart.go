package convert

import (
	"bytes"
	"fmt"

	"github.com/Eyevinn/mp4ff/mp4"
)

// verifyFaststart parses MP4 data and reports whether the moov box
// precedes the mdat box, which is what lets players start before the
// whole file arrives.
func verifyFaststart(data []byte) (bool, error) {
	f, err := mp4.DecodeFile(bytes.NewReader(data))
	if err != nil {
		return false, fmt.Errorf("decode mp4: %w", err)
	}
	return moovBeforeMdat(f), nil
}

func moovBeforeMdat(f *mp4.File) bool {
	moov, mdat := -1, -1
	for i, box := range f.Children {
		switch box.Type() {
		case "moov":
			if moov < 0 {
				moov = i
			}
		case "mdat":
			if mdat < 0 {
				mdat = i
			}
		}
	}
	if moov < 0 || mdat < 0 {
		// Nothing to compare; fragmented or atypical layouts stream
		// fine regardless.
		return true
	}
	return moov < mdat
}
