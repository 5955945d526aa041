package renderer

import "image"

// ImageLoader 按来源取图片。Load 立即返回，解码完成后在任意
// goroutine 上回调 done；同步实现可以在调用栈上直接回调。
type ImageLoader interface {
	Load(src string, done func(img image.Image, err error))
}
