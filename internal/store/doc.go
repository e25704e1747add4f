// Package store keeps notes as JSON documents in a directory.
//
// Each note is one file named <id>.json:
//
//	{
//	  "id": "6f1c...",
//	  "title": "Groceries",
//	  "content": "# Groceries\n- milk",
//	  "createdAt": "2024-05-01T09:30:00Z",
//	  "updatedAt": "2024-05-01T09:42:11Z",
//	  "revision": 3
//	}
//
// Fields are read with gjson and updated in place with sjson, so fields
// written by other tools survive a save. Writes go to a temporary file that
// is renamed over the document.
package store
