// Package assets loads the textures and the HDR environment used by the scene.
//
// Loading happens on background goroutines. Results are posted to a
// kernel.Inbox and applied by the frame loop; nothing here touches the scene.
package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"orrery/kernel"
	"orrery/quarkgl"
)

// MaxAssetBytes bounds any single texture or HDR download.
const MaxAssetBytes = 32 * 1024 * 1024

// MaxImagePixels bounds the decoded size of a texture or HDR panorama. Image
// headers are checked against it before any pixel memory is allocated.
const MaxImagePixels = MaxAssetBytes / 4

// DefaultParallel is the number of concurrent loads used when Parallel is 0.
const DefaultParallel = 4

var errTooLarge = errors.New("assets: file too large")

// ErrImageTooLarge is returned for images whose header declares more than
// MaxImagePixels pixels.
var ErrImageTooLarge = errors.New("assets: image too large")

func checkPixels(w, h int) error {
	if w > 0 && h > 0 && w <= MaxImagePixels/h {
		return nil
	}
	return fmt.Errorf("%w: %dx%d", ErrImageTooLarge, w, h)
}

// Kind tells the frame loop what a Result carries.
type Kind uint8

const (
	KindTexture Kind = iota + 1
	KindEnvironment
)

// Request names one asset to load. For textures Name is resolved against the
// loader root; for environments it is a URL or file path.
type Request struct {
	Kind Kind
	Name string
}

// Result is posted to the inbox once per Request.
type Result struct {
	Kind    Kind
	Name    string
	Texture *quarkgl.Texture
	Env     *quarkgl.EnvMap
	Err     error
}

// Loader fetches assets from a directory or an http(s) base URL.
type Loader struct {
	// Root is a directory path or an "http://" / "https://" base URL.
	Root string

	Client   *http.Client
	Exposure float64
	Parallel int
}

// NewLoader returns a loader rooted at root.
func NewLoader(root string) *Loader {
	return &Loader{Root: root, Client: http.DefaultClient, Exposure: 1, Parallel: DefaultParallel}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Resolve maps an asset name such as "/earth/map.webp" to a file path or URL.
func (l *Loader) Resolve(name string) string {
	rel := strings.TrimPrefix(path.Clean("/"+name), "/")
	if isURL(l.Root) {
		return strings.TrimSuffix(l.Root, "/") + "/" + rel
	}
	return filepath.Join(l.Root, filepath.FromSlash(rel))
}

// open returns a reader for a file path or URL.
func (l *Loader) open(ctx context.Context, loc string) (io.ReadCloser, error) {
	if !isURL(loc) {
		f, err := os.Open(loc)
		if err != nil {
			return nil, err
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, err
	}
	c := l.Client
	if c == nil {
		c = http.DefaultClient
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", loc, resp.Status)
	}
	return resp.Body, nil
}

type limitedReader struct {
	r    io.Reader
	left int64
}

func (lr *limitedReader) Read(p []byte) (int, error) {
	if lr.left <= 0 {
		// A stream of exactly the limit still ends with EOF.
		var one [1]byte
		n, err := lr.r.Read(one[:])
		if n > 0 {
			return 0, errTooLarge
		}
		return 0, err
	}
	if int64(len(p)) > lr.left {
		p = p[:lr.left]
	}
	n, err := lr.r.Read(p)
	lr.left -= int64(n)
	return n, err
}

// LoadTexture reads and decodes a PNG, JPEG or WebP texture.
func (l *Loader) LoadTexture(ctx context.Context, name string) (*quarkgl.Texture, error) {
	loc := l.Resolve(name)
	rc, err := l.open(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("assets: texture %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(&limitedReader{r: rc, left: MaxAssetBytes})
	if err != nil {
		return nil, fmt.Errorf("assets: texture %s: %w", name, err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", name, err)
	}
	if err := checkPixels(cfg.Width, cfg.Height); err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", name, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", name, err)
	}
	t := quarkgl.NewTexture(img)
	if t == nil {
		return nil, fmt.Errorf("assets: decode %s: empty image", name)
	}
	return t, nil
}

// LoadHDR fetches a Radiance panorama and tone maps it into an environment map.
// loc is used as is: a URL or a file path.
func (l *Loader) LoadHDR(ctx context.Context, loc string) (*quarkgl.EnvMap, error) {
	rc, err := l.open(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("assets: hdr %s: %w", loc, err)
	}
	defer rc.Close()

	img, err := DecodeHDR(&limitedReader{r: rc, left: MaxAssetBytes})
	if err != nil {
		return nil, fmt.Errorf("assets: hdr %s: %w", loc, err)
	}
	env := EnvMapFromHDR(img, l.Exposure)
	if env == nil {
		return nil, fmt.Errorf("assets: hdr %s: empty image", loc)
	}
	return env, nil
}

func (l *Loader) load(ctx context.Context, req Request) Result {
	res := Result{Kind: req.Kind, Name: req.Name}
	switch req.Kind {
	case KindTexture:
		res.Texture, res.Err = l.LoadTexture(ctx, req.Name)
	case KindEnvironment:
		res.Env, res.Err = l.LoadHDR(ctx, req.Name)
	default:
		res.Err = fmt.Errorf("assets: unknown request kind %d", req.Kind)
	}
	return res
}

// Start loads every request in the background and posts one Result per
// request to inbox. It returns immediately; the returned channel is closed
// once all results have been posted or ctx is done.
func (l *Loader) Start(ctx context.Context, inbox *kernel.Inbox[Result], reqs ...Request) <-chan struct{} {
	done := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)
	n := l.Parallel
	if n <= 0 {
		n = DefaultParallel
	}
	g.SetLimit(n)

	go func() {
		defer close(done)
		for _, req := range reqs {
			req := req
			g.Go(func() error {
				// Posting only fails when the context is done.
				return inbox.Send(gctx, l.load(gctx, req))
			})
		}
		_ = g.Wait()
	}()
	return done
}
