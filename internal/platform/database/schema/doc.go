// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package schema names the tables and columns of the PoetPiece database.

Repositories build SQL from these definitions instead of repeating string
literals, so a renamed column is a one-line change here.
*/
package schema
