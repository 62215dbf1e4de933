
// Package fuzztests houses Go fuzz harnesses for the markup pipeline
// (source -> lexer -> checks -> formatter). Its goal is to smoke test
// robustness and guard against panics on arbitrary page sources.
//
// Назначение: загружать байты в File и прогонять их через токенизатор,
// проверки, скоринг и форматирование.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/engine,
// internal/markdown, internal/diag.

package fuzztests
