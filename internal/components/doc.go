// Package components holds the fixed set of elements the expansion
// transform replaces: the example wrapper bound to <pre> and the recipe
// card bound to <mc-recipe> and <mcrecipe>.
package components
