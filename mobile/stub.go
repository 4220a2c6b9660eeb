//go:build !mobile

// 桌面构建时的占位文件：真正的绑定入口在 mobile.go，仅在 -tags mobile 时编译。
package mobile

// Dummy 保证 ./mobile 在桌面构建下也是一个合法的包
func Dummy() {}
