package config

// DefaultConfigTemplate is written by `ezexport config init`.
const DefaultConfigTemplate = `# ezexport preferences
#
# Containers and armatures whose name starts with exportPrefix are exported.
exportPrefix: "."

# Node made active before merging (its origin and shading win).
priorityPrefix: "."

# Nodes starting with this prefix never leave the scene.
excludePrefix: "NOEXPORT_"

# Collision proxy containers: <collisionPrefix><candidate base name>.
collisionPrefix: "UCX_"

# Candidate classification for --category.
lowpolyRegex: "(?i)_lp$"
highpolyRegex: "(?i)_hp$"

# Secondary marker requesting an automatic unwrap, stripped from output names.
autoUvPrefix: "~"

# Temporary container holding merged nodes until they are written.
stagingCollection: "EZ-Export"

# Output name templates. $(file) is the scene document name.
collectionTemplate: "$(file)_$(collection)"
armatureTemplate: "$(file)_$(armature)"

respectCurrentView: true
showExportDialog: true

# Output root; empty means next to the scene document.
sourcePath: ""

fileFormat: "obj"
`
