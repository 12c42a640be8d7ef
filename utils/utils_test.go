package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRand16BytesToBase62(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		token := Rand16BytesToBase62()
		if token == "" || len(token) > 22 {
			t.Fatalf("Rand16BytesToBase62() = %q", token)
		}
		if seen[token] {
			t.Fatalf("Rand16BytesToBase62() repeated %q", token)
		}
		seen[token] = true
	}
}

func TestCreateThumb(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 200))
	for x := 0; x < 400; x++ {
		src.Set(x, x%200, color.RGBA{R: 255, A: 255})
	}
	in := bytes.Buffer{}
	if err := png.Encode(&in, src); err != nil {
		t.Fatal(err)
	}
	out := bytes.Buffer{}
	result, err := CreateThumb(100, &in, &out)
	if err != nil {
		t.Fatalf("CreateThumb() error = %v", err)
	}
	if result.OldX != 400 || result.OldY != 200 || result.NewX != 100 || result.NewY != 50 {
		t.Errorf("CreateThumb() = %+v", result)
	}
	if result.ThumbSize != int64(out.Len()) || out.Len() == 0 {
		t.Errorf("ThumbSize = %d, written %d", result.ThumbSize, out.Len())
	}
	if _, err = CreateThumb(100, bytes.NewBufferString("not an image"), &out); err == nil {
		t.Error("CreateThumb() of garbage should fail")
	}
}

func TestCacheRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		cacheTime int
		want      string
	}{
		{CacheNoCache, "no-cache"},
		{3600, "private, max-age=3600"},
		{CacheCustom, ""},
	}
	for _, tt := range tests {
		r := gin.New()
		r.Use((&CacheRouter{CacheTime: tt.cacheTime}).Handler())
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if got := w.Header().Get("cache-control"); got != tt.want {
			t.Errorf("CacheTime %d: cache-control = %q, want %q", tt.cacheTime, got, tt.want)
		}
	}
}

func TestStringToInt(t *testing.T) {
	if got := StringToInt("42", 1); got != 42 {
		t.Errorf("StringToInt(42) = %d", got)
	}
	if got := StringToInt("x", 7); got != 7 {
		t.Errorf("StringToInt(x) = %d", got)
	}
}
