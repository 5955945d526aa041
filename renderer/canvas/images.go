package canvasrenderer

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ByLCY/pagina/layout"
)

type imageState int

const (
	imagePending imageState = iota
	imageReady
	imageFailed
)

type imageEntry struct {
	state imageState
	img   image.Image
}

// requestImage 返回图片的缓存条目，首次请求时触发异步加载。
// 加载结束后通过 OnResolve 通知上层标脏重绘；缓存条目只进不出，
// 同一来源不会重复加载。
func (r *Renderer) requestImage(box *layout.ImageBox) *imageEntry {
	if box.Src == "" {
		return nil
	}
	r.imageMu.Lock()
	if entry, ok := r.images[box.Src]; ok {
		r.imageMu.Unlock()
		return entry
	}
	entry := &imageEntry{state: imagePending}
	r.images[box.Src] = entry
	r.imageMu.Unlock()

	if r.opts.Loader == nil {
		return entry
	}
	src := box.Src
	r.opts.Loader.Load(src, func(img image.Image, err error) {
		r.imageMu.Lock()
		if err != nil {
			entry.state = imageFailed
			r.log.Warn("image load failed", zap.String("src", src), zap.Error(err))
		} else {
			entry.state = imageReady
			entry.img = img
		}
		r.imageMu.Unlock()
		if r.OnResolve != nil {
			r.OnResolve(src)
		}
	})
	return entry
}

// imageStateOf 返回某来源的缓存状态，尚未请求过时第二个返回值为 false。
func (r *Renderer) imageStateOf(src string) (imageState, bool) {
	r.imageMu.Lock()
	defer r.imageMu.Unlock()
	entry, ok := r.images[src]
	if !ok {
		return imagePending, false
	}
	return entry.state, true
}

// FileLoader 从本地目录同步加载图片，done 在调用栈上回调。
type FileLoader struct {
	BaseDir string
}

// Load 实现 renderer.ImageLoader。
func (l FileLoader) Load(src string, done func(image.Image, error)) {
	path := src
	if !filepath.IsAbs(path) {
		if l.BaseDir == "" {
			done(nil, fmt.Errorf("未指定资源目录时不允许使用相对路径：%s", src))
			return
		}
		path = filepath.Join(l.BaseDir, path)
	}
	file, err := os.Open(path)
	if err != nil {
		done(nil, fmt.Errorf("读取图片 %s 失败: %w", src, err))
		return
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		done(nil, fmt.Errorf("解码图片 %s 失败: %w", src, err))
		return
	}
	done(img, nil)
}
