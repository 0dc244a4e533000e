package runlog

import (
	"bytes"
	"encoding/binary"
)

// key = invTime(8) + 0x00 + id
func makeTimeIDKey(unixNano int64, id string) []byte {
	buf := make([]byte, 0, 8+1+len(id))

	tmp8 := make([]byte, 8)
	binary.BigEndian.PutUint64(tmp8, ^uint64(unixNano))
	buf = append(buf, tmp8...)

	buf = append(buf, 0x00)
	buf = append(buf, []byte(id)...)
	return buf
}

func idFromTimeIDKey(k []byte) string {
	if len(k) < 8+2 {
		return ""
	}
	i := bytes.IndexByte(k[8:], 0x00)
	if i < 0 {
		return ""
	}
	pos := 8 + i
	if pos+1 >= len(k) {
		return ""
	}
	return string(k[pos+1:])
}

// DayKey identifies one topic on one calendar day.
func DayKey(day, topic string) string {
	return day + "|" + topic
}
