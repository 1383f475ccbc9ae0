/*
Package ports defines the driven ports (interfaces) of the vessel generator.

These interfaces decouple the construction pipeline from concrete implementations, so the
same core can run on any conformant geometric kernel, export format or artifact backend.

# Key Interfaces

  - Kernel: builds cylinders and performs union, subtraction and edge fillets on solids.
  - Tessellator: turns a solid into a triangle mesh for export.
  - Exporter: writes a finished VesselModel to a stream (e.g. STL).
  - ArtifactStore: keeps exported models addressable by key (memory, file, Redis).
*/
package ports
