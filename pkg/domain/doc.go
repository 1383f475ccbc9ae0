/*
Package domain contains the core domain models of the vessel generator.

It defines the entities of the vascular tree (branch specifications, placed branches and
the branch node tree), the opaque Solid handle exchanged with the geometric kernel, the
kernel-reported edge topology used by seam rounding, and the error taxonomy of a build.
Apart from vector math it is kept free of external dependencies like I/O or persistence,
following Hexagonal Architecture principles.

# Key Entities

  - BranchSpec: immutable description of one branch (diameter, length, wall, placement).
  - TreeSpec: the ordered main → primary → secondary hierarchy with a fixed fan-out of two.
  - Frame / PlacedBranch: a branch resolved into world space.
  - BranchNode: a placed branch plus its outer and lumen solids.
  - VesselModel: the final solid handed to export, with any recoverable warnings.
  - Mesh: a triangulated surface produced by a kernel for export.
*/
package domain
