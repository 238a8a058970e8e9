package actor

// Ref 类型化的 Actor 引用
//
// Ref 在 [PID] 之上携带 Actor 的具体类型 A，泛型代码可以据此在编译期约束
// 只对满足某种能力的 Actor 暴露操作。Ref 是值类型，可以自由复制。
type Ref[A Actor] struct {
	pid *PID
}

// NewRef 把已有 PID 包装为类型化引用
// 调用方需保证 pid 指向的 Actor 类型确实是 A
func NewRef[A Actor](pid *PID) Ref[A] {
	return Ref[A]{pid: pid}
}

// Spawn 创建 Actor 并返回类型化引用
//
// 名称已存在时返回既有 Actor 的引用（与 [System.Spawn] 一致）。
func Spawn[A Actor](sys *System, a A, name string) Ref[A] {
	return Ref[A]{pid: sys.Spawn(a, name)}
}

// SpawnWithProps 使用属性创建 Actor 并返回类型化引用
func SpawnWithProps[A Actor](sys *System, a A, props *Props) Ref[A] {
	return Ref[A]{pid: sys.SpawnWithProps(a, props)}
}

// PID 返回底层 PID
func (r Ref[A]) PID() *PID { return r.pid }

// Tell 发送消息（fire-and-forget）
func (r Ref[A]) Tell(msg Message) {
	if r.pid != nil {
		r.pid.Tell(msg)
	}
}

// String 返回引用的字符串表示
func (r Ref[A]) String() string {
	if r.pid == nil {
		return "<nil>"
	}
	return r.pid.String()
}
