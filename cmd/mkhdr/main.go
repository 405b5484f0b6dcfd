package main

import (
	"bufio"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"
	"strings"

	_ "golang.org/x/image/webp"

	"orrery/assets"
)

func main() {
	var (
		inPath   = flag.String("in", "", "Input file (.png/.jpg/.webp for encode, .hdr for decode).")
		outPath  = flag.String("out", "", "Output file (.hdr for encode, .png for decode).")
		mode     = flag.String("mode", "encode", "encode|decode.")
		exposure = flag.Float64("exposure", 1, "Linear scale applied while encoding, or before tone mapping when decoding.")
	)
	flag.Parse()

	if *inPath == "" || *outPath == "" {
		fatalf("usage: mkhdr -mode encode -in sky.png -out sky.hdr [-exposure 1]\n       mkhdr -mode decode -in sky.hdr -out sky.png [-exposure 1]")
	}

	switch strings.ToLower(*mode) {
	case "encode":
		if err := encodeImageToHDR(*inPath, *outPath, *exposure); err != nil {
			fatalf("encode: %v", err)
		}
	case "decode":
		if err := decodeHDRToPNG(*inPath, *outPath, *exposure); err != nil {
			fatalf("decode: %v", err)
		}
	default:
		fatalf("unknown mode: %s", *mode)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

func srgbToLinear(v uint32) float32 {
	c := float64(v) / 0xFFFF
	if c <= 0.04045 {
		return float32(c / 12.92)
	}
	return float32(math.Pow((c+0.055)/1.055, 2.4))
}

func encodeImageToHDR(inPath, outPath string, exposure float64) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	img, _, err := image.Decode(bufio.NewReader(in))
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return fmt.Errorf("%s: empty image", inPath)
	}

	k := float32(exposure)
	hdr := assets.NewHDRImage(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			hdr.SetRGB(x, y, srgbToLinear(r)*k, srgbToLinear(g)*k, srgbToLinear(bl)*k)
		}
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := assets.EncodeHDR(out, hdr); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func decodeHDRToPNG(inPath, outPath string, exposure float64) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	hdr, err := assets.DecodeHDR(in)
	if err != nil {
		return err
	}
	tex := assets.ToneMap(hdr, exposure)

	img := image.NewNRGBA(image.Rect(0, 0, tex.W, tex.H))
	for i, c := range tex.Pix {
		img.Pix[i*4+0] = c.R
		img.Pix[i*4+1] = c.G
		img.Pix[i*4+2] = c.B
		img.Pix[i*4+3] = 0xFF
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(out, 64*1024)
	if err := png.Encode(bw, img); err != nil {
		out.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
