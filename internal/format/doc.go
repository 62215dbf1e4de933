// Package format pretty-prints markup: one token per line, indented by
// nesting depth.
//
// Назначение: канонический вывод для fmt-команды и редактора.
// Гарантии: идемпотентность и сохранение последовательности непробельных символов;
// при нарушении любой из них возвращается исходный текст.
// Зависимости: internal/lexer, internal/source, internal/token.
package format
