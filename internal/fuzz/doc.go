// Package fuzztests houses Go fuzz harnesses for the script front end:
// the section segmenter, the lexer and the expression VM compiler. Its goal
// is to catch panics and hangs on arbitrary input.
//
// Назначение: прогонять произвольные байты через сегментер, лексер и
// компилятор VM.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/section, internal/lexer, internal/vm, internal/diag.
package fuzztests
