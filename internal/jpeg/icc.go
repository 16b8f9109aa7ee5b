package jpeg

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

const (
	iccMarkerTag     = "ICC_PROFILE\x00"
	iccHeaderLen     = 14    // tag + seq + count
	maxChunkDataSize = 65519 // 65535 - 2 (length) - 14 (header)
	maxChunks        = 255
)

// ExtractICC reassembles an ICC profile from APP2 marker payloads. Payloads
// that are not ICC chunks are ignored; nil is returned when none are found.
func ExtractICC(markers [][]byte) ([]byte, error) {
	type chunk struct {
		seq  int
		data []byte
	}
	var chunks []chunk
	expectedCount := 0

	for _, m := range markers {
		if len(m) < iccHeaderLen || string(m[:12]) != iccMarkerTag {
			continue
		}
		seq, count := int(m[12]), int(m[13])
		if seq == 0 || seq > count {
			return nil, fmt.Errorf("invalid ICC chunk sequence %d/%d", seq, count)
		}
		if expectedCount == 0 {
			expectedCount = count
		} else if count != expectedCount {
			return nil, fmt.Errorf("inconsistent ICC chunk count: %d vs %d", count, expectedCount)
		}
		chunks = append(chunks, chunk{seq: seq, data: m[iccHeaderLen:]})
	}

	if len(chunks) == 0 {
		return nil, nil
	}
	if len(chunks) != expectedCount {
		return nil, fmt.Errorf("expected %d ICC chunks, found %d", expectedCount, len(chunks))
	}

	slices.SortFunc(chunks, func(a, b chunk) int { return cmp.Compare(a.seq, b.seq) })

	var profile []byte
	for i, c := range chunks {
		if c.seq != i+1 {
			return nil, fmt.Errorf("duplicate ICC chunk %d", c.seq)
		}
		profile = append(profile, c.data...)
	}
	return profile, nil
}

// ChunkICC splits an ICC profile into APP2 marker payloads, each carrying
// the ICC_PROFILE tag and its 1-based sequence number and chunk count.
func ChunkICC(profile []byte) ([][]byte, error) {
	if len(profile) == 0 {
		return nil, errors.New("empty ICC profile")
	}

	n := (len(profile) + maxChunkDataSize - 1) / maxChunkDataSize
	if n > maxChunks {
		return nil, fmt.Errorf("ICC profile too large: needs %d chunks (max %d)", n, maxChunks)
	}

	chunks := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		data := profile[i*maxChunkDataSize : min((i+1)*maxChunkDataSize, len(profile))]
		chunk := make([]byte, 0, iccHeaderLen+len(data))
		chunk = append(chunk, iccMarkerTag...)
		chunk = append(chunk, byte(i+1), byte(n))
		chunk = append(chunk, data...)
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}
