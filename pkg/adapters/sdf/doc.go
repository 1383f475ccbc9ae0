/*
Package sdf implements ports.Kernel and ports.Tessellator on signed distance fields.

Solids are kept as a shallow constructive tree: cylinder primitives, unions of
cylinders, and a single difference of two unions. Booleans are exact (min/max of the
fields); fillets are polynomial smooth-min blends applied per pair of fused members,
which is what makes edge selection possible without a boundary representation.

Meshes are extracted with marching tetrahedra over a Kuhn-subdivided grid, which yields
a closed surface with no ambiguous cases.
*/
package sdf
