package service

// MergeAndRank exposes mergeAndRank for external tests.
var MergeAndRank = mergeAndRank
