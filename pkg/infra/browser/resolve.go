package browser

import (
	"context"

	"github.com/go-rod/rod"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/kbfetch/pkg/domain/model"
)

// resolveJS walks a locator chain (outermost first) and returns the first
// matching element, or null so that rod keeps polling. Role names are matched
// against a simplified accessible name: aria-label, associated labels, the
// value of input buttons, title/placeholder of text fields, and for
// containers the names of their descendants joined by spaces. Exact steps
// compare whole names; others match a case-insensitive substring.
const resolveJS = `(chain) => {
	const roles = {
		row: 'tr,[role=row]',
		cell: 'td,th,[role=cell],[role=gridcell]',
		textbox: 'input:not([type]),input[type=text],input[type=search],textarea,[role=textbox]',
		button: 'button,input[type=button],input[type=submit],[role=button]',
		link: 'a[href],[role=link]',
	};
	const norm = (s) => (s || '').replace(/\s+/g, ' ').trim();
	const isField = (el) => el.tagName === 'INPUT' || el.tagName === 'TEXTAREA';
	const nameOf = (el) => {
		const aria = el.getAttribute('aria-label');
		if (aria) return norm(aria);
		if (el.labels && el.labels.length) {
			return norm(Array.from(el.labels).map((l) => l.textContent).join(' '));
		}
		if (el.tagName === 'INPUT' && (el.type === 'button' || el.type === 'submit')) {
			return norm(el.value);
		}
		if (isField(el)) return norm(el.getAttribute('title') || el.placeholder);
		const parts = [];
		for (const child of el.childNodes) {
			if (child.nodeType === Node.TEXT_NODE) parts.push(child.textContent);
			else if (child.nodeType === Node.ELEMENT_NODE) parts.push(nameOf(child));
		}
		return norm(parts.join(' '));
	};

	let scope = document;
	for (const step of chain) {
		let found = null;
		if (step.css) {
			found = scope.querySelector(step.css);
		} else {
			const sel = roles[step.role] || '[role=' + step.role + ']';
			const want = norm(step.name);
			const match = step.exact
				? (el) => nameOf(el) === want
				: (el) => nameOf(el).toLowerCase().includes(want.toLowerCase());
			found = Array.from(scope.querySelectorAll(sel)).find(match) || null;
		}
		if (!found) return null;
		scope = found;
	}
	return scope === document ? null : scope;
}`

// resolve polls the page until loc matches an element or ctx is done.
func resolve(ctx context.Context, page *rod.Page, loc model.Locator) (*rod.Element, error) {
	el, err := page.Context(ctx).ElementByJS(rod.Eval(resolveJS, loc.Chain()))
	if err != nil {
		return nil, goerr.Wrap(err, "element not found", goerr.V("locator", loc.String()))
	}
	return el, nil
}
