package assets

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrNotHDR is returned when the stream does not start with a Radiance signature.
	ErrNotHDR = errors.New("assets: not a radiance hdr stream")

	errHDRFormat     = errors.New("assets: hdr: unsupported pixel format")
	errHDRResolution = errors.New("assets: hdr: bad resolution line")
	errHDRScanline   = errors.New("assets: hdr: corrupt scanline")
)

const (
	hdrMaxDim    = 1 << 14
	hdrRowChunk  = 64
	hdrRLEMinLen = 8
	hdrRLEMaxLen = 0x7FFF
)

// HDRImage is a linear RGB float image, row-major, top row first.
type HDRImage struct {
	W, H     int
	Exposure float64
	Pix      []float32 // 3 floats per pixel
}

// NewHDRImage allocates a black image.
func NewHDRImage(w, h int) *HDRImage {
	return &HDRImage{W: w, H: h, Exposure: 1, Pix: make([]float32, w*h*3)}
}

// RGB returns the linear color at (x, y).
func (m *HDRImage) RGB(x, y int) (r, g, b float32) {
	i := (y*m.W + x) * 3
	return m.Pix[i], m.Pix[i+1], m.Pix[i+2]
}

// SetRGB stores a linear color at (x, y).
func (m *HDRImage) SetRGB(x, y int, r, g, b float32) {
	i := (y*m.W + x) * 3
	m.Pix[i], m.Pix[i+1], m.Pix[i+2] = r, g, b
}

// DecodeHDR reads a Radiance RGBE image. Flat, old-style run length and
// new-style per-channel run length scanlines are accepted. Only the standard
// "-Y h +X w" orientation is supported.
func DecodeHDR(r io.Reader) (*HDRImage, error) {
	br := bufio.NewReader(r)

	sig, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("assets: hdr: read signature: %w", err)
	}
	if !strings.HasPrefix(sig, "#?") {
		return nil, ErrNotHDR
	}

	exposure := 1.0
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("assets: hdr: read header: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		switch {
		case strings.HasPrefix(line, "FORMAT="):
			if f := strings.TrimPrefix(line, "FORMAT="); f != "32-bit_rle_rgbe" {
				return nil, fmt.Errorf("%w: %s", errHDRFormat, f)
			}
		case strings.HasPrefix(line, "EXPOSURE="):
			if v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(line, "EXPOSURE=")), 64); err == nil && v > 0 {
				exposure *= v
			}
		}
	}

	resLine, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("assets: hdr: read resolution: %w", err)
	}
	w, h, err := parseResolution(strings.TrimSpace(resLine))
	if err != nil {
		return nil, err
	}
	if err := checkPixels(w, h); err != nil {
		return nil, fmt.Errorf("assets: hdr: %w", err)
	}

	// Pixels grow with the rows actually read, so a truncated stream only
	// costs what it delivered.
	img := &HDRImage{W: w, H: h, Exposure: exposure, Pix: make([]float32, 0, w*3*min(h, hdrRowChunk))}
	scan := make([]byte, w*4)
	for y := 0; y < h; y++ {
		if err := readScanline(br, scan); err != nil {
			return nil, fmt.Errorf("assets: hdr: row %d: %w", y, err)
		}
		for x := 0; x < w; x++ {
			rr, gg, bb := rgbeToFloat(scan[x*4], scan[x*4+1], scan[x*4+2], scan[x*4+3])
			img.Pix = append(img.Pix, rr, gg, bb)
		}
	}
	return img, nil
}

func parseResolution(s string) (w, h int, err error) {
	f := strings.Fields(s)
	if len(f) != 4 || f[0] != "-Y" || f[2] != "+X" {
		return 0, 0, fmt.Errorf("%w: %q", errHDRResolution, s)
	}
	h, err1 := strconv.Atoi(f[1])
	w, err2 := strconv.Atoi(f[3])
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 || w > hdrMaxDim || h > hdrMaxDim {
		return 0, 0, fmt.Errorf("%w: %q", errHDRResolution, s)
	}
	return w, h, nil
}

func readScanline(br *bufio.Reader, scan []byte) error {
	w := len(scan) / 4
	if w < hdrRLEMinLen || w > hdrRLEMaxLen {
		return readFlat(br, scan, 0)
	}

	var head [4]byte
	if _, err := io.ReadFull(br, head[:]); err != nil {
		return err
	}
	if head[0] != 2 || head[1] != 2 || head[2]&0x80 != 0 {
		copy(scan, head[:])
		return readFlat(br, scan, 1)
	}
	if int(head[2])<<8|int(head[3]) != w {
		return errHDRScanline
	}

	// New-style: each channel is run length encoded separately.
	for c := 0; c < 4; c++ {
		for x := 0; x < w; {
			n, err := br.ReadByte()
			if err != nil {
				return err
			}
			if n > 128 {
				run := int(n) - 128
				if x+run > w {
					return errHDRScanline
				}
				v, err := br.ReadByte()
				if err != nil {
					return err
				}
				for ; run > 0; run-- {
					scan[x*4+c] = v
					x++
				}
				continue
			}
			if n == 0 || x+int(n) > w {
				return errHDRScanline
			}
			for i := 0; i < int(n); i++ {
				v, err := br.ReadByte()
				if err != nil {
					return err
				}
				scan[x*4+c] = v
				x++
			}
		}
	}
	return nil
}

// readFlat reads uncompressed or old-style run length pixels starting at
// pixel index from. A (1,1,1,n) pixel repeats the previous one.
func readFlat(br *bufio.Reader, scan []byte, from int) error {
	w := len(scan) / 4
	shift := uint(0)
	for x := from; x < w; {
		var px [4]byte
		if _, err := io.ReadFull(br, px[:]); err != nil {
			return err
		}
		if px[0] == 1 && px[1] == 1 && px[2] == 1 {
			if x == 0 {
				return errHDRScanline
			}
			n := int(px[3]) << shift
			if x+n > w {
				return errHDRScanline
			}
			for ; n > 0; n-- {
				copy(scan[x*4:x*4+4], scan[(x-1)*4:(x-1)*4+4])
				x++
			}
			shift += 8
			continue
		}
		copy(scan[x*4:x*4+4], px[:])
		x++
		shift = 0
	}
	return nil
}

func rgbeToFloat(r, g, b, e byte) (float32, float32, float32) {
	if e == 0 {
		return 0, 0, 0
	}
	f := float32(math.Ldexp(1, int(e)-(128+8)))
	return (float32(r) + 0.5) * f, (float32(g) + 0.5) * f, (float32(b) + 0.5) * f
}

func floatToRGBE(r, g, b float32) [4]byte {
	v := r
	if g > v {
		v = g
	}
	if b > v {
		v = b
	}
	if v < 1e-32 {
		return [4]byte{}
	}
	m, e := math.Frexp(float64(v))
	s := m * 256 / float64(v)
	return [4]byte{byte(float64(r) * s), byte(float64(g) * s), byte(float64(b) * s), byte(e + 128)}
}

// EncodeHDR writes img as a Radiance RGBE stream with new-style run length
// scanlines where the width allows it.
func EncodeHDR(w io.Writer, img *HDRImage) error {
	if img == nil || img.W <= 0 || img.H <= 0 || len(img.Pix) < img.W*img.H*3 {
		return errors.New("assets: hdr: empty image")
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n")
	if img.Exposure > 0 && img.Exposure != 1 {
		fmt.Fprintf(bw, "EXPOSURE=%g\n", img.Exposure)
	}
	fmt.Fprintf(bw, "\n-Y %d +X %d\n", img.H, img.W)

	scan := make([]byte, img.W*4)
	var chunk bytes.Buffer
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			px := floatToRGBE(img.RGB(x, y))
			copy(scan[x*4:], px[:])
		}
		if img.W < hdrRLEMinLen || img.W > hdrRLEMaxLen {
			bw.Write(scan)
			continue
		}
		chunk.Reset()
		chunk.Write([]byte{2, 2, byte(img.W >> 8), byte(img.W)})
		for c := 0; c < 4; c++ {
			encodeChannelRLE(&chunk, scan, c, img.W)
		}
		bw.Write(chunk.Bytes())
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("assets: hdr: write: %w", err)
	}
	return nil
}

func encodeChannelRLE(out *bytes.Buffer, scan []byte, c, w int) {
	at := func(x int) byte { return scan[x*4+c] }
	x := 0
	for x < w {
		// Find the next run of at least 4 equal bytes.
		runStart := x
		runLen := 0
		for runStart < w {
			runLen = 1
			for runStart+runLen < w && runLen < 127 && at(runStart+runLen) == at(runStart) {
				runLen++
			}
			if runLen >= 4 {
				break
			}
			runStart += runLen
		}
		if runLen < 4 {
			runStart = w
		}
		for x < runStart {
			n := runStart - x
			if n > 128 {
				n = 128
			}
			out.WriteByte(byte(n))
			for i := 0; i < n; i++ {
				out.WriteByte(at(x + i))
			}
			x += n
		}
		if runStart < w {
			out.WriteByte(byte(128 + runLen))
			out.WriteByte(at(runStart))
			x = runStart + runLen
		}
	}
}
