package signalgen

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/printer"
	"go/token"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"text/template"
)

const (
	// DefaultOutput 默认输出文件名
	DefaultOutput = "signal_handlers_gen.go"

	// Annotation 类型声明上的生成标记
	Annotation = "//signal:handler"

	actorImport  = "github.com/lwmacct/251215-go-pkg-signal/pkg/actor"
	signalImport = "github.com/lwmacct/251215-go-pkg-signal/pkg/signal"
)

var (
	// ErrNoTypes 没有指定类型，源码中也没有标记
	ErrNoTypes = errors.New("no types selected")
	// ErrTypeNotFound 指定的类型在包中不存在
	ErrTypeNotFound = errors.New("type not found")
	// ErrNotStruct 类型不是结构体
	ErrNotStruct = errors.New("type is not a struct")
	// ErrUnknownImport 约束中的包限定符无法对应到 import
	ErrUnknownImport = errors.New("unknown package qualifier")
)

// Receiver 生成方法的接收者形式
type Receiver string

const (
	ReceiverPointer Receiver = "pointer"
	ReceiverValue   Receiver = "value"
)

// ParseReceiver 解析接收者形式，空字符串视为 pointer
func ParseReceiver(s string) (Receiver, error) {
	switch Receiver(s) {
	case "", ReceiverPointer:
		return ReceiverPointer, nil
	case ReceiverValue:
		return ReceiverValue, nil
	default:
		return "", fmt.Errorf("invalid receiver %q, want %q or %q", s, ReceiverPointer, ReceiverValue)
	}
}

// Options 生成选项
type Options struct {
	// Dir 包目录
	Dir string
	// Types 要生成的类型名，为空时使用带 Annotation 标记的类型
	Types []string
	// Output 输出文件名（相对 Dir）
	Output string
	// Receiver 接收者形式
	Receiver Receiver
	// Logger 日志器，为空时使用 slog.Default()
	Logger *slog.Logger
}

func (o *Options) setDefaults() {
	if o.Dir == "" {
		o.Dir = "."
	}
	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if o.Receiver == "" {
		o.Receiver = ReceiverPointer
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Write 生成代码并写入 Dir/Output，返回写入的路径
func Write(opts Options) (string, error) {
	opts.setDefaults()

	src, err := Generate(opts)
	if err != nil {
		return "", err
	}

	out := filepath.Join(opts.Dir, opts.Output)
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", out, err)
	}
	opts.Logger.Info("generated signal handlers", "file", out)
	return out, nil
}

// Generate 解析 Dir 下的包并返回格式化后的生成代码
func Generate(opts Options) ([]byte, error) {
	opts.setDefaults()
	log := opts.Logger

	pkg, err := loadPackage(opts.Dir, opts.Output, log)
	if err != nil {
		return nil, err
	}

	names := normalizeTypes(opts.Types)
	if len(names) == 0 {
		names = pkg.annotated
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%s: %w", opts.Dir, ErrNoTypes)
	}

	data := fileData{Package: pkg.name}
	imports := map[importSpec]bool{{Path: signalImport}: true}

	for _, name := range names {
		decl, ok := pkg.types[name]
		if !ok {
			return nil, fmt.Errorf("%s: %w", name, ErrTypeNotFound)
		}
		if _, ok := decl.spec.Type.(*ast.StructType); !ok || decl.spec.Assign.IsValid() {
			return nil, fmt.Errorf("%s: %w", name, ErrNotStruct)
		}

		td, deps, err := buildType(pkg.fset, decl, opts.Receiver)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		for _, dep := range deps {
			imports[dep] = true
		}

		have := pkg.methods[name]
		td.Stop = !have["HandleStop"]
		td.Terminate = !have["HandleTerminate"]
		log.Debug("type selected", "type", name, "generic", td.Generic(),
			"stop", td.Stop, "terminate", td.Terminate)

		data.Types = append(data.Types, td)
	}

	// actor 只出现在生成的方法签名里，方法全部手写时不能导入
	if slices.ContainsFunc(data.Types, func(td typeData) bool { return td.Stop || td.Terminate }) {
		imports[importSpec{Path: actorImport}] = true
	}

	for spec := range imports {
		data.Imports = append(data.Imports, spec)
	}
	slices.SortFunc(data.Imports, func(a, b importSpec) int {
		if c := strings.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated code: %w", err)
	}
	return src, nil
}

func normalizeTypes(in []string) []string {
	var out []string
	for _, s := range in {
		for _, name := range strings.Split(s, ",") {
			name = strings.TrimSpace(name)
			if name != "" && !slices.Contains(out, name) {
				out = append(out, name)
			}
		}
	}
	return out
}

// ═══════════════════════════════════════════════════════════════════════════
// 源码解析
// ═══════════════════════════════════════════════════════════════════════════

type typeDecl struct {
	spec *ast.TypeSpec
	file *ast.File
}

type sourcePackage struct {
	name      string
	fset      *token.FileSet
	types     map[string]typeDecl
	annotated []string
	// methods 类型名 -> 已存在的方法名
	methods map[string]map[string]bool
}

func loadPackage(dir, output string, log *slog.Logger) (*sourcePackage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	pkg := &sourcePackage{
		fset:    token.NewFileSet(),
		types:   make(map[string]typeDecl),
		methods: make(map[string]map[string]bool),
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || name == output {
			continue
		}

		file, err := parser.ParseFile(pkg.fset, filepath.Join(dir, name), nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		if ast.IsGenerated(file) {
			log.Debug("skip generated file", "file", name)
			continue
		}

		if pkg.name == "" {
			pkg.name = file.Name.Name
		} else if pkg.name != file.Name.Name {
			return nil, fmt.Errorf("%s: found packages %s and %s", dir, pkg.name, file.Name.Name)
		}

		pkg.collect(file)
		log.Debug("parsed file", "file", name)
	}

	if pkg.name == "" {
		return nil, fmt.Errorf("%s: no Go source files", dir)
	}
	return pkg, nil
}

func (p *sourcePackage) collect(file *ast.File) {
	for _, d := range file.Decls {
		switch decl := d.(type) {
		case *ast.GenDecl:
			if decl.Tok != token.TYPE {
				continue
			}
			for _, s := range decl.Specs {
				spec := s.(*ast.TypeSpec)
				p.types[spec.Name.Name] = typeDecl{spec: spec, file: file}

				doc := spec.Doc
				if doc == nil && len(decl.Specs) == 1 {
					doc = decl.Doc
				}
				if hasAnnotation(doc) {
					p.annotated = append(p.annotated, spec.Name.Name)
				}
			}

		case *ast.FuncDecl:
			if decl.Recv == nil || len(decl.Recv.List) == 0 {
				continue
			}
			recv := receiverTypeName(decl.Recv.List[0].Type)
			if recv == "" {
				continue
			}
			if p.methods[recv] == nil {
				p.methods[recv] = make(map[string]bool)
			}
			p.methods[recv][decl.Name.Name] = true
		}
	}
}

// hasAnnotation 标记是指令式注释，CommentGroup.Text 会将其过滤，需要逐行检查
func hasAnnotation(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if strings.TrimSpace(c.Text) == Annotation {
			return true
		}
	}
	return false
}

func receiverTypeName(expr ast.Expr) string {
	for {
		switch e := expr.(type) {
		case *ast.StarExpr:
			expr = e.X
		case *ast.ParenExpr:
			expr = e.X
		case *ast.IndexExpr:
			expr = e.X
		case *ast.IndexListExpr:
			expr = e.X
		case *ast.Ident:
			return e.Name
		default:
			return ""
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 类型描述
// ═══════════════════════════════════════════════════════════════════════════

type typeParam struct {
	Name       string
	Constraint string
}

type typeData struct {
	Name      string
	Params    []typeParam
	Recv      string
	Ctx       string
	Pointer   bool
	Stop      bool
	Terminate bool
}

// Generic 是否带类型参数
func (t typeData) Generic() bool { return len(t.Params) > 0 }

// TypeArgs 形如 [K, V]
func (t typeData) TypeArgs() string {
	if !t.Generic() {
		return ""
	}
	names := make([]string, len(t.Params))
	for i, p := range t.Params {
		names[i] = p.Name
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// TypeParams 形如 [K comparable, V fmt.Stringer]
func (t typeData) TypeParams() string {
	if !t.Generic() {
		return "[]"
	}
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.Name + " " + p.Constraint
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// RecvType 接收者类型
func (t typeData) RecvType() string {
	if t.Pointer {
		return "*" + t.Name + t.TypeArgs()
	}
	return t.Name + t.TypeArgs()
}

type importSpec struct {
	Name string
	Path string
}

type fileData struct {
	Package string
	Imports []importSpec
	Types   []typeData
}

func buildType(fset *token.FileSet, decl typeDecl, recv Receiver) (typeData, []importSpec, error) {
	td := typeData{
		Name:    decl.spec.Name.Name,
		Pointer: recv != ReceiverValue,
	}

	var deps []importSpec
	taken := map[string]bool{"actor": true, "signal": true}

	if tps := decl.spec.TypeParams; tps != nil {
		for _, field := range tps.List {
			var buf bytes.Buffer
			if err := printer.Fprint(&buf, fset, field.Type); err != nil {
				return td, nil, fmt.Errorf("print constraint: %w", err)
			}

			qualified, err := constraintImports(field.Type, decl.file)
			if err != nil {
				return td, nil, err
			}
			deps = append(deps, qualified...)

			for _, n := range field.Names {
				td.Params = append(td.Params, typeParam{Name: n.Name, Constraint: buf.String()})
				taken[n.Name] = true
			}
		}
	}

	td.Recv = freeName(taken, receiverName(td.Name), "recv")
	taken[td.Recv] = true
	td.Ctx = freeName(taken, "ctx", "c")
	return td, deps, nil
}

// receiverName 按惯例取类型名首字母小写
func receiverName(typeName string) string {
	for _, r := range typeName {
		return strings.ToLower(string(r))
	}
	return "r"
}

func freeName(taken map[string]bool, candidates ...string) string {
	for _, c := range candidates {
		if !taken[c] {
			return c
		}
	}
	base := candidates[len(candidates)-1]
	for i := 1; ; i++ {
		if name := base + strconv.Itoa(i); !taken[name] {
			return name
		}
	}
}

// constraintImports 找出约束里用到的包限定符对应的 import
func constraintImports(expr ast.Expr, file *ast.File) ([]importSpec, error) {
	var (
		deps []importSpec
		err  error
		seen = make(map[string]bool)
	)

	ast.Inspect(expr, func(n ast.Node) bool {
		if err != nil {
			return false
		}
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		id, ok := sel.X.(*ast.Ident)
		if !ok || seen[id.Name] {
			return true
		}
		seen[id.Name] = true

		spec, found := lookupImport(file, id.Name)
		if !found {
			err = fmt.Errorf("%s.%s: %w", id.Name, sel.Sel.Name, ErrUnknownImport)
			return false
		}
		deps = append(deps, spec)
		return true
	})
	return deps, err
}

var (
	majorVersion = regexp.MustCompile(`^v[0-9]+$`)
	gopkgVersion = regexp.MustCompile(`\.v[0-9]+$`)
)

func lookupImport(file *ast.File, qualifier string) (importSpec, bool) {
	for _, imp := range file.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		if imp.Name != nil {
			if imp.Name.Name == qualifier {
				return importSpec{Name: qualifier, Path: p}, true
			}
			continue
		}
		if defaultPackageName(p) == qualifier {
			return importSpec{Path: p}, true
		}
	}
	return importSpec{}, false
}

// defaultPackageName 按路径推断包名：取最后一段，跳过 /vN 版本后缀，去掉 .vN 与 go- 前缀
func defaultPackageName(importPath string) string {
	base := path.Base(importPath)
	if majorVersion.MatchString(base) {
		base = path.Base(path.Dir(importPath))
	}
	base = gopkgVersion.ReplaceAllString(base, "")
	base = strings.TrimPrefix(base, "go-")
	return strings.ReplaceAll(base, "-", "_")
}

// ═══════════════════════════════════════════════════════════════════════════
// 模板
// ═══════════════════════════════════════════════════════════════════════════

var fileTemplate = template.Must(template.New("file").Parse(`// Code generated by signalgen. DO NOT EDIT.

package {{.Package}}

import (
{{- range .Imports}}
	{{if .Name}}{{.Name}} {{end}}"{{.Path}}"
{{- end}}
)
{{range .Types}}
{{- if .Stop}}
// HandleStop 优雅停止 {{.Name}}
func ({{.Recv}} {{.RecvType}}) HandleStop({{.Ctx}} *actor.Context, _ *signal.StopSignal) {
	{{.Ctx}}.StopSelf()
}
{{end}}
{{- if .Terminate}}
// HandleTerminate 立即终止 {{.Name}}
func ({{.Recv}} {{.RecvType}}) HandleTerminate({{.Ctx}} *actor.Context, _ *signal.TerminateSignal) {
	{{.Ctx}}.TerminateSelf()
}
{{end}}
{{- if .Generic}}
func _{{.TypeParams}}() {
	var _ signal.Handler = (*{{.Name}}{{.TypeArgs}})(nil)
}
{{else}}
var _ signal.Handler = (*{{.Name}})(nil)
{{end}}
{{- end}}`))
