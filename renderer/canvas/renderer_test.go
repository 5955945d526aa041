package canvasrenderer

import (
	"errors"
	"image"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/pagina/layout"
)

func TestParseFontStyle(t *testing.T) {
	cases := []struct {
		in   string
		want canvas.FontStyle
	}{
		{"", canvas.FontRegular},
		{"regular", canvas.FontRegular},
		{"bold", canvas.FontBold},
		{"Bold Italic", canvas.FontBold | canvas.FontItalic},
		{"italic", canvas.FontRegular | canvas.FontItalic},
		{"semibold", canvas.FontSemiBold},
		{"light oblique", canvas.FontLight | canvas.FontItalic},
		{"extrabold", canvas.FontExtraBold},
	}
	for _, c := range cases {
		if got := parseFontStyle(c.in); got != c.want {
			t.Fatalf("parseFontStyle(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(Options{Fonts: map[string][]Resource{"Body": {{}}}}); err == nil {
		t.Fatalf("空字体资源应报错")
	}
	if _, err := New(Options{
		Fonts:         map[string][]Resource{"Serif": {{Path: "/nonexistent.ttf"}}},
		DefaultFamily: "Body",
	}); err == nil {
		t.Fatalf("读不到字体文件应报错")
	}
}

func TestTextWidthWithoutFonts(t *testing.T) {
	r, err := New(Options{})
	if err != nil {
		t.Fatalf("创建后端失败: %v", err)
	}
	if w := r.TextWidth("hello", nil); w != 0 {
		t.Fatalf("无字体时测量应退化为 0: %g", w)
	}
}

// stubLoader 在调用栈上同步回调，可配置成功或失败。
type stubLoader struct {
	calls int
	fail  bool
}

func (l *stubLoader) Load(src string, done func(image.Image, error)) {
	l.calls++
	if l.fail {
		done(nil, errors.New("boom"))
		return
	}
	done(image.NewRGBA(image.Rect(0, 0, 8, 8)), nil)
}

func TestImageCacheReady(t *testing.T) {
	loader := &stubLoader{}
	r, err := New(Options{Loader: loader})
	if err != nil {
		t.Fatalf("创建后端失败: %v", err)
	}
	var resolved []string
	r.OnResolve = func(src string) { resolved = append(resolved, src) }

	box := &layout.ImageBox{Src: "a.png", Width: 10, Height: 10}
	entry := r.requestImage(box)
	if entry == nil || entry.state != imageReady || entry.img == nil {
		t.Fatalf("同步加载后应就绪: %+v", entry)
	}
	if len(resolved) != 1 || resolved[0] != "a.png" {
		t.Fatalf("就绪回执错误: %v", resolved)
	}

	// 同一来源不重复加载。
	r.requestImage(box)
	if loader.calls != 1 {
		t.Fatalf("缓存命中不应再次加载: %d", loader.calls)
	}
}

func TestImageCacheFailed(t *testing.T) {
	loader := &stubLoader{fail: true}
	r, err := New(Options{Loader: loader})
	if err != nil {
		t.Fatalf("创建后端失败: %v", err)
	}
	notified := 0
	r.OnResolve = func(string) { notified++ }

	entry := r.requestImage(&layout.ImageBox{Src: "bad.png"})
	if entry.state != imageFailed {
		t.Fatalf("失败加载应记为 failed: %v", entry.state)
	}
	if notified != 1 {
		t.Fatalf("失败同样要发回执: %d", notified)
	}

	// 失败条目不重试。
	r.requestImage(&layout.ImageBox{Src: "bad.png"})
	if loader.calls != 1 {
		t.Fatalf("失败来源不应自动重试: %d", loader.calls)
	}
	if state, ok := r.imageStateOf("bad.png"); !ok || state != imageFailed {
		t.Fatalf("缓存状态错误: %v %v", state, ok)
	}
}

func TestImageCacheWithoutLoader(t *testing.T) {
	r, err := New(Options{})
	if err != nil {
		t.Fatalf("创建后端失败: %v", err)
	}
	entry := r.requestImage(&layout.ImageBox{Src: "a.png"})
	if entry == nil || entry.state != imagePending {
		t.Fatalf("无加载器时应停留在占位状态: %+v", entry)
	}
	if entry := r.requestImage(&layout.ImageBox{}); entry != nil {
		t.Fatalf("空来源不应建缓存条目")
	}
}

func TestSnapshotRequiresPaint(t *testing.T) {
	r, err := New(Options{})
	if err != nil {
		t.Fatalf("创建后端失败: %v", err)
	}
	if _, err := r.Snapshot(0); err == nil {
		t.Fatalf("未绘制的表面不应有快照")
	}
}
