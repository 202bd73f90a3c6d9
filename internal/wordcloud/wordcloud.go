// Package wordcloud は頻度表からワードクラウド画像を描画する
package wordcloud

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/go-faster/errors"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/yacchi/danmaku-cli/internal/frequency"
)

// RenderError は描画できなかったときのエラー
type RenderError struct {
	Reason string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wordcloud: %s: %v", e.Reason, e.Err)
	}
	return "wordcloud: " + e.Reason
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Options は描画設定
type Options struct {
	Width  int
	Height int
	// Background は #rrggbb 形式の背景色
	Background string
	// MaxFontSize が 0 なら Height の半分
	MaxFontSize float64
	MinFontSize float64
	// FontPath か FontData のどちらかが必要。FontData が優先される
	FontPath string
	FontData []byte
	Seed     int64
	// MaxWords は描画する語数の上限。0 なら無制限
	MaxWords int
}

// DefaultOptions は既定の描画設定（フォントは未指定）
func DefaultOptions() Options {
	return Options{
		Width:       800,
		Height:      400,
		Background:  "#ffffff",
		MinFontSize: 4,
		Seed:        42,
		MaxWords:    200,
	}
}

// Placement は配置済みの1語
type Placement struct {
	Word     string  `json:"word"`
	Count    int     `json:"count"`
	FontSize float64 `json:"font_size"`
	// X, Y は語の中心座標
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Color  color.NRGBA `json:"-"`
}

func (p Placement) overlaps(q Placement) bool {
	return math.Abs(p.X-q.X)*2 < p.Width+q.Width && math.Abs(p.Y-q.Y)*2 < p.Height+q.Height
}

// palette は語の色。seed 付き乱数で選ぶ
var palette = []color.NRGBA{
	{0x44, 0x01, 0x54, 0xff},
	{0x3b, 0x52, 0x8b, 0xff},
	{0x21, 0x91, 0x8c, 0xff},
	{0x28, 0xae, 0x80, 0xff},
	{0x5e, 0xc9, 0x62, 0xff},
	{0xad, 0xdc, 0x30, 0xff},
	{0x31, 0x68, 0x8e, 0xff},
	{0x44, 0x3a, 0x83, 0xff},
}

// Renderer はワードクラウドの描画器
// フォントは最初の描画時に一度だけ読み込む。font.Face は呼び出しごとに作るので並行に使える
type Renderer struct {
	opts Options

	once    sync.Once
	font    *truetype.Font
	fontErr error
}

// NewRenderer は描画器を作成する
func NewRenderer(opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = 800
	}
	if opts.Height <= 0 {
		opts.Height = 400
	}
	if opts.MinFontSize <= 0 {
		opts.MinFontSize = 4
	}
	if opts.MaxFontSize <= 0 {
		opts.MaxFontSize = float64(opts.Height) / 2
	}
	if opts.MaxFontSize < opts.MinFontSize {
		opts.MaxFontSize = opts.MinFontSize
	}
	return &Renderer{opts: opts}
}

// Options は補正済みの描画設定を返す
func (r *Renderer) Options() Options {
	return r.opts
}

func (r *Renderer) loadFont() (*truetype.Font, error) {
	r.once.Do(func() {
		data := r.opts.FontData
		if data == nil {
			if r.opts.FontPath == "" {
				r.fontErr = &RenderError{Reason: "font path is not set"}
				return
			}
			b, err := os.ReadFile(r.opts.FontPath)
			if err != nil {
				r.fontErr = &RenderError{Reason: "read font " + r.opts.FontPath, Err: err}
				return
			}
			data = b
		}
		f, err := truetype.Parse(data)
		if err != nil {
			r.fontErr = &RenderError{Reason: "parse font", Err: err}
			return
		}
		r.font = f
	})
	return r.font, r.fontErr
}

// faceSet は1回の描画の間だけ使うサイズ別の font.Face
// truetype の face はグリフキャッシュを持つため goroutine 間で共有しない
type faceSet struct {
	font  *truetype.Font
	faces map[float64]font.Face
}

func newFaceSet(f *truetype.Font) *faceSet {
	return &faceSet{font: f, faces: make(map[float64]font.Face)}
}

func (s *faceSet) get(size float64) font.Face {
	if face, ok := s.faces[size]; ok {
		return face
	}
	face := truetype.NewFace(s.font, &truetype.Options{Size: size})
	s.faces[size] = face
	return face
}

// Layout は語の配置を計算する
// 入らなかった語はフォントを縮めて再試行し、最小サイズでも入らなければ捨てる
func (r *Renderer) Layout(table frequency.Table) ([]Placement, error) {
	f, err := r.loadFont()
	if err != nil {
		return nil, err
	}
	return r.layout(table, newFaceSet(f))
}

func (r *Renderer) layout(table frequency.Table, faces *faceSet) ([]Placement, error) {
	entries := nonEmpty(table).Top(r.opts.MaxWords)
	if len(entries) == 0 {
		return nil, &RenderError{Reason: "frequency table is empty"}
	}

	rng := rand.New(rand.NewPCG(uint64(r.opts.Seed), 0))
	dc := gg.NewContext(r.opts.Width, r.opts.Height)
	maxCount := float64(entries[0].Count)

	var placed []Placement
	for _, e := range entries {
		size := math.Round(r.opts.MaxFontSize * math.Sqrt(float64(e.Count)/maxCount))
		size = math.Max(size, r.opts.MinFontSize)
		for size >= r.opts.MinFontSize {
			dc.SetFontFace(faces.get(size))
			w, h := dc.MeasureString(e.Word)
			p := Placement{Word: e.Word, Count: e.Count, FontSize: size, Width: w, Height: h}
			if r.place(&p, placed, rng) {
				p.Color = palette[rng.IntN(len(palette))]
				placed = append(placed, p)
				break
			}
			size -= 2
		}
	}
	if len(placed) == 0 {
		return nil, &RenderError{Reason: "no word fits in the canvas"}
	}
	return placed, nil
}

// place はアルキメデス螺旋に沿って空き位置を探す
func (r *Renderer) place(p *Placement, placed []Placement, rng *rand.Rand) bool {
	w, h := float64(r.opts.Width), float64(r.opts.Height)
	if p.Width > w || p.Height > h {
		return false
	}
	cx := w/2 + (rng.Float64()-0.5)*w/4
	cy := h/2 + (rng.Float64()-0.5)*h/4
	maxRadius := math.Hypot(w, h)
	aspect := h / w

	for t := 0.0; ; t += 0.1 {
		radius := 2 * t
		if radius > maxRadius {
			return false
		}
		p.X = cx + radius*math.Cos(t)
		p.Y = cy + radius*math.Sin(t)*aspect
		if p.X-p.Width/2 < 0 || p.X+p.Width/2 > w || p.Y-p.Height/2 < 0 || p.Y+p.Height/2 > h {
			continue
		}
		free := true
		for _, q := range placed {
			if p.overlaps(q) {
				free = false
				break
			}
		}
		if free {
			return true
		}
	}
}

// Render は頻度表を画像に描画する
func (r *Renderer) Render(table frequency.Table) (image.Image, error) {
	dc, _, err := r.draw(table)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// RenderPNG は描画結果をPNGとして書き出す
func (r *Renderer) RenderPNG(w io.Writer, table frequency.Table) error {
	_, err := r.RenderPNGWithLayout(w, table)
	return err
}

// RenderPNGWithLayout はPNGを書き出し、描画に使った配置も返す
func (r *Renderer) RenderPNGWithLayout(w io.Writer, table frequency.Table) ([]Placement, error) {
	dc, placements, err := r.draw(table)
	if err != nil {
		return nil, err
	}
	if err := dc.EncodePNG(w); err != nil {
		return nil, &RenderError{Reason: "encode png", Err: err}
	}
	return placements, nil
}

func (r *Renderer) draw(table frequency.Table) (*gg.Context, []Placement, error) {
	f, err := r.loadFont()
	if err != nil {
		return nil, nil, err
	}
	faces := newFaceSet(f)
	placements, err := r.layout(table, faces)
	if err != nil {
		return nil, nil, err
	}
	bg, err := ParseHexColor(r.opts.Background)
	if err != nil {
		return nil, nil, &RenderError{Reason: "invalid background color", Err: err}
	}

	dc := gg.NewContext(r.opts.Width, r.opts.Height)
	dc.SetColor(bg)
	dc.Clear()
	for _, p := range placements {
		dc.SetFontFace(faces.get(p.FontSize))
		dc.SetColor(p.Color)
		dc.DrawStringAnchored(p.Word, p.X, p.Y, 0.5, 0.5)
	}
	return dc, placements, nil
}

// ParseHexColor は #rgb / #rrggbb 形式の色を解釈する
func ParseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.NRGBA{}, errors.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, errors.Wrapf(err, "invalid hex color %q", s)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

func nonEmpty(table frequency.Table) frequency.Table {
	out := make(frequency.Table, 0, len(table))
	for _, e := range table {
		if e.Count > 0 && strings.TrimSpace(e.Word) != "" {
			out = append(out, e)
		}
	}
	return out
}
