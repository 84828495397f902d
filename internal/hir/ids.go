package hir

// LocalID identifies one binding (let, parameter, or hidden iterator
// introduced by normalization) within a function. Every HVar node is
// resolved to the LocalID of its defining binding.
type LocalID uint32

// NoLocalID marks an unresolved or absent binding.
const NoLocalID LocalID = 0
