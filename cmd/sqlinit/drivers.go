// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package main

import (
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)
