// Package settlefine implements fine settlement bookkeeping: marking a fine
// paid after the desk collected the amount, or waiving it entirely. This is
// ledger maintenance only; payment processing happens elsewhere.
package settlefine
