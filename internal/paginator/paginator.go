// Package paginator режет упорядоченную выборку на страницы фиксированного размера.
package paginator

import (
	"errors"
	"strconv"
	"strings"
)

// Page - одна страница выборки. Номера страниц начинаются с 1.
type Page[T any] struct {
	Items    []T
	Number   int
	NumPages int
	Count    int
	PerPage  int
}

func (p Page[T]) Len() int {
	return len(p.Items)
}

func (p Page[T]) HasNext() bool {
	return p.Number < p.NumPages
}

func (p Page[T]) HasPrevious() bool {
	return p.Number > 1
}

func (p Page[T]) HasOtherPages() bool {
	return p.HasNext() || p.HasPrevious()
}

func (p Page[T]) NextPageNumber() int {
	if !p.HasNext() {
		return p.Number
	}
	return p.Number + 1
}

func (p Page[T]) PreviousPageNumber() int {
	if !p.HasPrevious() {
		return p.Number
	}
	return p.Number - 1
}

// StartIndex - порядковый номер первого элемента страницы (с 1), 0 для пустой выборки.
func (p Page[T]) StartIndex() int {
	if p.Count == 0 {
		return 0
	}
	return (p.Number-1)*p.PerPage + 1
}

// Paginate возвращает страницу по сырому значению параметра page.
// Пустое или нечисловое значение дает первую страницу, номер вне диапазона -
// ближайшую существующую. Пустая выборка состоит из одной пустой страницы.
func Paginate[T any](items []T, perPage int, rawPage string) Page[T] {
	if perPage < 1 {
		perPage = 1
	}

	count := len(items)
	numPages := (count + perPage - 1) / perPage
	if numPages == 0 {
		numPages = 1
	}

	number := parsePage(rawPage)
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	start := (number - 1) * perPage
	end := start + perPage
	if end > count {
		end = count
	}
	if start > count {
		start = count
	}

	return Page[T]{
		Items:    items[start:end],
		Number:   number,
		NumPages: numPages,
		Count:    count,
		PerPage:  perPage,
	}
}

func parsePage(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	number, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) {
		// Atoi возвращает MaxInt/MinInt, дальше номер прижимается к границам
		return number
	}
	if err != nil {
		return 1
	}
	return number
}
