// Package nbfs implements the fusebook FUSE filesystem.
//
// It presents each Jupyter notebook in a source directory as a synthetic
// directory whose files are the notebook's cells and per-MIME output
// payloads:
//
//	/
//	├── analysis.ipynb/
//	│   ├── cell0.md
//	│   ├── cell1.py
//	│   ├── cell1_out0_stdout.txt
//	│   └── cell1_out1_data0.png
//	└── scratch.ipynb/
//	    └── ...
//
// The package is split along the request path: Repository scans and caches
// parsed notebooks keyed by filename, Resolver maps virtual paths to typed
// entities and renders their content, and the FS/Dir/File nodes adapt both
// to the bazil.org/fuse callback surface. The whole tree is read-only;
// every mutating callback fails with EROFS.
package nbfs
