// Package histogram は弾幕の再生位置を等幅ビンで集計する
package histogram

import (
	"math"
)

// DefaultBins は既定のビン数
const DefaultBins = 20

// Bin は [Lower, Upper) の区間とその件数。最後のビンのみ Upper を含む
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram は等幅ビンの列
type Histogram struct {
	Bins []Bin `json:"bins"`
}

// Total は全ビンの件数の合計を返す
func (h Histogram) Total() int {
	total := 0
	for _, b := range h.Bins {
		total += b.Count
	}
	return total
}

// Max は最大のビン件数を返す
func (h Histogram) Max() int {
	m := 0
	for _, b := range h.Bins {
		if b.Count > m {
			m = b.Count
		}
	}
	return m
}

// Compute は観測範囲 [min, max] を bins 個の等幅区間に分けて件数を数える
//
// 空入力は [0, 0] の幅0のビンを bins 個返す（件数はすべて0）。
// 全値が等しい場合は範囲を [v-0.5, v+0.5] に広げる。
// bins <= 0 は 1 として扱う。NaN と ±Inf は数えない。
func Compute(values []float64, bins int) Histogram {
	if bins <= 0 {
		bins = 1
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	n := 0
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		n++
	}

	h := Histogram{Bins: make([]Bin, bins)}
	if n == 0 {
		return h
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	width := (hi - lo) / float64(bins)
	for i := range h.Bins {
		h.Bins[i].Lower = lo + float64(i)*width
		h.Bins[i].Upper = lo + float64(i+1)*width
	}
	h.Bins[bins-1].Upper = hi

	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		h.Bins[idx].Count++
	}
	return h
}
