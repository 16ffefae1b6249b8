// Package domain holds the ranking model: page records, the priority scorer
// and the market and category predicates. Everything here is pure.
package domain
