package object

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Objects are framed as "<type> <size>\x00<payload>" and identified by
// the hex sha256 of the framed bytes.

func frame(typ string, payload []byte) (hash string, encoded []byte) {
	header := fmt.Sprintf("%s %d\x00", typ, len(payload))
	buf := make([]byte, len(header)+len(payload))
	copy(buf, header)
	copy(buf[len(header):], payload)

	h := sha256.Sum256(buf)
	return hex.EncodeToString(h[:]), buf
}

func unframe(data []byte) (typ string, payload []byte, err error) {
	idx := bytes.IndexByte(data, 0)
	if idx == -1 {
		return "", nil, fmt.Errorf("%w: missing header terminator", ErrCorrupt)
	}
	typ, _, ok := strings.Cut(string(data[:idx]), " ")
	if !ok {
		return "", nil, fmt.Errorf("%w: malformed header %q", ErrCorrupt, data[:idx])
	}
	return typ, data[idx+1:], nil
}

func encodeBlob(content []byte) (hash string, encoded []byte) {
	return frame("blob", content)
}

// encodeTree encodes entries as a tree object. Entries are sorted by
// name so the hash depends only on the entry set.
// Entry format: {kind:1byte}{hash:32bytes}{nameLen:2bytes}{name}
func encodeTree(entries []TreeEntry) (hash string, encoded []byte, err error) {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var buf bytes.Buffer
	for _, e := range sorted {
		raw, err := hex.DecodeString(e.Hash)
		if err != nil || len(raw) != sha256.Size {
			return "", nil, fmt.Errorf("tree entry %q: invalid hash %q", e.Name, e.Hash)
		}
		buf.WriteByte(byte(e.Kind))
		buf.Write(raw)
		binary.Write(&buf, binary.BigEndian, uint16(len(e.Name)))
		buf.WriteString(e.Name)
	}

	hash, encoded = frame("tree", buf.Bytes())
	return hash, encoded, nil
}

func decodeTree(payload []byte) ([]TreeEntry, error) {
	var entries []TreeEntry
	r := bytes.NewReader(payload)

	for r.Len() > 0 {
		kind, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: truncated tree entry", ErrCorrupt)
		}
		if Kind(kind) != KindBlob && Kind(kind) != KindTree {
			return nil, fmt.Errorf("%w: unknown entry kind %d", ErrCorrupt, kind)
		}

		var raw [sha256.Size]byte
		if _, err := io.ReadFull(r, raw[:]); err != nil {
			return nil, fmt.Errorf("%w: truncated tree entry", ErrCorrupt)
		}

		var nameLen uint16
		if err := binary.Read(r, binary.BigEndian, &nameLen); err != nil {
			return nil, fmt.Errorf("%w: truncated tree entry", ErrCorrupt)
		}
		name := make([]byte, nameLen)
		if _, err := io.ReadFull(r, name); err != nil {
			return nil, fmt.Errorf("%w: truncated tree entry", ErrCorrupt)
		}

		entries = append(entries, TreeEntry{
			Kind: Kind(kind),
			Hash: hex.EncodeToString(raw[:]),
			Name: string(name),
		})
	}

	return entries, nil
}

// Commit payloads are line-oriented text: a "tree <hash>" line, zero or
// more "parent <hash>" lines, a blank line, then the message.
func encodeCommit(c *Commit) (hash string, encoded []byte) {
	var b strings.Builder
	fmt.Fprintf(&b, "tree %s\n", c.Tree)
	for _, p := range c.Parents {
		fmt.Fprintf(&b, "parent %s\n", p)
	}
	b.WriteString("\n")
	b.WriteString(c.Message)

	return frame("commit", []byte(b.String()))
}

func decodeCommit(payload []byte) (*Commit, error) {
	head, msg, _ := strings.Cut(string(payload), "\n\n")

	c := &Commit{Message: msg}
	for _, line := range strings.Split(head, "\n") {
		if line == "" {
			continue
		}
		field, value, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("%w: malformed commit line %q", ErrCorrupt, line)
		}
		switch field {
		case "tree":
			c.Tree = value
		case "parent":
			c.Parents = append(c.Parents, value)
		default:
			return nil, fmt.Errorf("%w: unknown commit field %q", ErrCorrupt, field)
		}
	}

	if c.Tree == "" {
		return nil, fmt.Errorf("%w: commit without tree", ErrCorrupt)
	}
	return c, nil
}
