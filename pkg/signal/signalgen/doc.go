// Package signalgen 为 Actor 类型生成信号处理方法
//
// 对于选中的每个结构体类型 T，生成的文件包含：
//
//	func (r *T[K, V]) HandleStop(ctx *actor.Context, _ *signal.StopSignal) { ctx.StopSelf() }
//	func (r *T[K, V]) HandleTerminate(ctx *actor.Context, _ *signal.TerminateSignal) { ctx.TerminateSelf() }
//	func _[K comparable, V fmt.Stringer]() { var _ signal.Handler = (*T[K, V])(nil) }
//
// 类型参数及其约束原样保留，约束中引用的包会加入生成文件的 import。
// 非泛型类型的断言写作 var _ signal.Handler = (*T)(nil)。
// 源码中已经手写的 HandleStop / HandleTerminate 不会重复生成。
//
// 类型可以通过 [Options.Types] 指定，也可以在类型声明上方加注释标记：
//
//	//signal:handler
//	type Worker struct{ actor.BaseActor }
package signalgen
