// Package loader turns a sectioned script into executable handles.
//
// A Loader owns one expression VM, the declaration set and a directive
// registry. Compiling a stream splits it into blocks, compiles every block
// with the common function set and registers the handles that succeed.
// Problems land in a diag.Bag; a pass succeeds when the bag stays empty.
//
//	l := loader.New(loader.Options{Sections: []string{"@init", "@block"}})
//	defer l.Close()
//	bag := diag.NewBag(0)
//	if !l.CompileFile(ctx, "main.eel", bag) {
//		fmt.Print(diagfmt.Legacy(bag))
//	}
//	l.ExecName("@init")
package loader
