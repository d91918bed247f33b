// Package printer turns a syntax tree back into JavaScript source text.
//
// Назначение: финальная стадия конвейера, печатает переписанный модуль.
// Не делает: source maps, минификацию, сохранение комментариев.
// Зависимости: internal/ast, internal/hygiene.
//
// The printer is precedence-aware: every expression is printed at a level and
// wraps itself in parentheses only when the surrounding context requires it,
// so a tree built by a rewrite pass never needs explicit grouping nodes.
package printer
