package parser

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
	"time"

	"tracklens/internal/track"
)

// Fixed column layout of an IGC B (position) record:
//
//	B HHMMSS DDMMmmm[N|S] DDDMMmmm[E|W] [A|V] PPPPP GGGGG
//
// where PPPPP is pressure altitude and GGGGG is GPS altitude, both in
// meters.
const bRecordLen = 35

// ParseIGC parses a fixed-width gliding-log file. Records are processed
// independently: a malformed position record drops that point (the same
// policy the XML parsers apply to missing coordinates) without
// aborting the rest of the file.
func ParseIGC(name string, data []byte) (*track.Track, error) {
	var points []track.Point

	// Date of the current fix, from the HFDTE header when present.
	// Without a header, timestamps keep their time of day on a fixed
	// reference date so elapsed-time deltas still derive.
	date := time.Date(0, time.January, 1, 0, 0, 0, 0, time.UTC)
	lastTOD := -1

	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		rec := strings.TrimRight(scanner.Text(), "\r")
		if rec == "" {
			continue
		}
		switch rec[0] {
		case 'H':
			if d, ok := parseDateHeader(rec); ok {
				date = d
			}
		case 'B':
			p, tod, err := parseBRecord("igc", line, rec)
			if err != nil {
				// Record-scoped ParseError: drop the point, keep going.
				continue
			}
			if lastTOD >= 0 && tod < lastTOD {
				// Time of day went backwards: the track crossed
				// midnight.
				date = date.AddDate(0, 0, 1)
			}
			lastTOD = tod
			p.Time = date.Add(time.Duration(tod) * time.Second)
			points = append(points, p)
		default:
			// A, C, G and friends carry no position data.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, parseErrorf("igc", line, err, "reading records: %v", err)
	}

	return track.New(name, "igc", points)
}

// parseDateHeader handles both HFDTE forms: the classic HFDTEDDMMYY and
// the long HFDTEDATE:DDMMYY,NN.
func parseDateHeader(rec string) (time.Time, bool) {
	if !strings.HasPrefix(rec, "HFDTE") {
		return time.Time{}, false
	}
	rest := strings.TrimPrefix(rec[5:], "DATE:")
	if len(rest) < 6 {
		return time.Time{}, false
	}
	day, err1 := strconv.Atoi(rest[0:2])
	month, err2 := strconv.Atoi(rest[2:4])
	year, err3 := strconv.Atoi(rest[4:6])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if year >= 80 {
		year += 1900
	} else {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// parseBRecord decodes one position record. The returned tod is the
// record's time of day in seconds.
func parseBRecord(format string, line int, rec string) (track.Point, int, error) {
	var p track.Point
	if len(rec) < bRecordLen {
		return p, 0, parseErrorf(format, line, nil, "position record too short (%d chars)", len(rec))
	}

	hour, err1 := strconv.Atoi(rec[1:3])
	minute, err2 := strconv.Atoi(rec[3:5])
	second, err3 := strconv.Atoi(rec[5:7])
	if err1 != nil || err2 != nil || err3 != nil || hour > 23 || minute > 59 || second > 59 {
		return p, 0, parseErrorf(format, line, nil, "malformed time field %q", rec[1:7])
	}
	tod := hour*3600 + minute*60 + second

	lat, err := parseIGCAngle(rec[7:14], rec[14], 'N', 'S')
	if err != nil {
		return p, 0, parseErrorf(format, line, err, "malformed latitude %q", rec[7:15])
	}
	lon, err := parseIGCAngle(rec[15:23], rec[23], 'E', 'W')
	if err != nil {
		return p, 0, parseErrorf(format, line, err, "malformed longitude %q", rec[15:24])
	}
	p.Latitude = lat
	p.Longitude = lon

	pressAlt, errP := strconv.Atoi(rec[25:30])
	gpsAlt, errG := strconv.Atoi(rec[30:35])
	if errP != nil || errG != nil {
		return p, 0, parseErrorf(format, line, nil, "malformed altitude fields %q", rec[25:35])
	}
	p.PressureAltitude = track.Float(float64(pressAlt))
	// The GPS altitude is only trustworthy on a 3D fix ('A'); fall back
	// to the barometric value otherwise.
	if rec[24] == 'A' {
		p.Elevation = track.Float(float64(gpsAlt))
	} else {
		p.Elevation = track.Float(float64(pressAlt))
	}

	return p, tod, nil
}

// parseIGCAngle decodes degrees + minutes + thousandths of minutes
// followed by a hemisphere letter. digits holds DDMMmmm for latitude or
// DDDMMmmm for longitude.
func parseIGCAngle(digits string, hemi byte, pos, neg byte) (float64, error) {
	degDigits := len(digits) - 5
	deg, err1 := strconv.Atoi(digits[:degDigits])
	min, err2 := strconv.Atoi(digits[degDigits : degDigits+2])
	thou, err3 := strconv.Atoi(digits[degDigits+2:])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, parseErrorf("igc", 0, nil, "non-numeric coordinate digits %q", digits)
	}
	angle := float64(deg) + (float64(min)+float64(thou)/1000)/60
	switch hemi {
	case pos:
		return angle, nil
	case neg:
		return -angle, nil
	}
	return 0, parseErrorf("igc", 0, nil, "invalid hemisphere letter %q", string(hemi))
}
