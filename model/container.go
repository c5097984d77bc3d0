package model

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	magicPuppet  = [8]byte{'T', 'R', 'N', 'S', 'R', 'T', 'S', 0}
	magicTexture = [8]byte{'T', 'E', 'X', '_', 'S', 'E', 'C', 'T'}
	magicVendor  = [8]byte{'E', 'X', 'T', '_', 'S', 'E', 'C', 'T'}
)

// ErrBadMagic is returned when a section of a puppet file does not start with
// the expected signature.
var ErrBadMagic = errors.New("model: bad magic bytes")

// maxSection bounds the size of any single length-prefixed blob so that a
// corrupt length cannot trigger a huge allocation.
const maxSection = 1 << 30

// Open reads a puppet file from disk.
func Open(path string) (*Puppet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("model: open %s: %w", path, err)
	}
	defer f.Close()

	p, err := Read(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("model: read %s: %w", path, err)
	}
	return p, nil
}

// Read decodes a puppet container from r.
//
// The container is a JSON payload, a texture section and an optional vendor
// data section. All integers are big-endian. The vendor section may be
// missing entirely; r ending right after the texture section is not an error.
func Read(r io.Reader) (*Puppet, error) {
	if err := readMagic(r, magicPuppet, "header"); err != nil {
		return nil, err
	}
	payload, err := readBlob(r)
	if err != nil {
		return nil, fmt.Errorf("model: json payload: %w", err)
	}
	p := new(Puppet)
	if err := json.Unmarshal(payload, p); err != nil {
		return nil, fmt.Errorf("model: decode json: %w", err)
	}

	if err := readMagic(r, magicTexture, "texture section"); err != nil {
		return nil, err
	}
	count, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("model: texture count: %w", err)
	}
	p.Textures = make([]Texture, 0, min(count, 1024))
	for i := range count {
		size, err := readU32(r)
		if err != nil {
			return nil, fmt.Errorf("model: texture %d: %w", i, err)
		}
		var enc [1]byte
		if _, err := io.ReadFull(r, enc[:]); err != nil {
			return nil, fmt.Errorf("model: texture %d: %w", i, err)
		}
		if TextureEncoding(enc[0]) > TextureBC7 {
			return nil, fmt.Errorf("model: texture %d: invalid encoding %d", i, enc[0])
		}
		data, err := readN(r, size)
		if err != nil {
			return nil, fmt.Errorf("model: texture %d: %w", i, err)
		}
		p.Textures = append(p.Textures, Texture{Encoding: TextureEncoding(enc[0]), Data: data})
	}

	var magic [8]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return p, nil
		}
		return nil, fmt.Errorf("model: vendor section: %w", err)
	}
	if magic != magicVendor {
		return nil, fmt.Errorf("%w: vendor section: got %q", ErrBadMagic, magic[:])
	}
	count, err = readU32(r)
	if err != nil {
		return nil, fmt.Errorf("model: vendor count: %w", err)
	}
	p.VendorData = make([]VendorData, 0, min(count, 1024))
	for i := range count {
		name, err := readBlob(r)
		if err != nil {
			return nil, fmt.Errorf("model: vendor entry %d name: %w", i, err)
		}
		data, err := readBlob(r)
		if err != nil {
			return nil, fmt.Errorf("model: vendor entry %d payload: %w", i, err)
		}
		p.VendorData = append(p.VendorData, VendorData{Name: string(name), Payload: data})
	}
	return p, nil
}

// Save writes the puppet to a file at path.
func (p *Puppet) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("model: create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := p.Write(w); err != nil {
		f.Close()
		return fmt.Errorf("model: write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("model: write %s: %w", path, err)
	}
	return f.Close()
}

// Write encodes the puppet container to w. The vendor section is always
// written, even when empty.
func (p *Puppet) Write(w io.Writer) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("model: encode json: %w", err)
	}

	ew := &errWriter{w: w}
	ew.write(magicPuppet[:])
	ew.blob(payload)

	ew.write(magicTexture[:])
	ew.u32(len(p.Textures))
	for _, tex := range p.Textures {
		ew.u32(len(tex.Data))
		ew.write([]byte{byte(tex.Encoding)})
		ew.write(tex.Data)
	}

	ew.write(magicVendor[:])
	ew.u32(len(p.VendorData))
	for _, vd := range p.VendorData {
		ew.blob([]byte(vd.Name))
		ew.blob(vd.Payload)
	}
	return ew.err
}

func readMagic(r io.Reader, want [8]byte, section string) error {
	var got [8]byte
	if _, err := io.ReadFull(r, got[:]); err != nil {
		return fmt.Errorf("model: %s: %w", section, err)
	}
	if got != want {
		return fmt.Errorf("%w: %s: want %q, got %q", ErrBadMagic, section, want[:], got[:])
	}
	return nil
}

func readU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, noEOF(err)
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// readBlob reads a u32 length followed by that many bytes.
func readBlob(r io.Reader) ([]byte, error) {
	n, err := readU32(r)
	if err != nil {
		return nil, err
	}
	return readN(r, n)
}

func readN(r io.Reader, n uint32) ([]byte, error) {
	if n > maxSection {
		return nil, fmt.Errorf("length %d exceeds limit", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, noEOF(err)
	}
	return buf, nil
}

// noEOF turns a clean EOF inside a section into ErrUnexpectedEOF.
func noEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// errWriter latches the first write error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) write(b []byte) {
	if ew.err != nil {
		return
	}
	_, ew.err = ew.w.Write(b)
}

func (ew *errWriter) u32(n int) {
	if ew.err == nil && uint64(n) > 0xFFFFFFFF {
		ew.err = fmt.Errorf("length %d does not fit in u32", n)
		return
	}
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(n))
	ew.write(buf[:])
}

func (ew *errWriter) blob(b []byte) {
	ew.u32(len(b))
	ew.write(b)
}
