/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 5000)
  - DatabaseURL: PostgreSQL connection string (empty selects SQLite)
  - SQLitePath: SQLite file path (default: instance/app.db)
  - SecretKey: Session token signing key
  - GodUsername, GodPassword: Bootstrap god account credentials

# CLI Flags

	-p        Server port
	-d        Database URL
	-f        SQLite file path
	-secret   Session signing key
	-god-user Bootstrap god username
	-god-pass Bootstrap god password

# Environment Variables

Flags fall back to environment variables:

	PORT         → -p
	DATABASE_URL → -d
	SQLITE_PATH  → -f
	SECRET_KEY   → -secret
	GOD_USERNAME → -god-user
	GOD_PASSWORD → -god-pass

CLI flags take precedence over environment variables.

# Defaults

Every setting has a development default, including the signing key
(DevSecretKey) and the god credentials. Production deployments should set
SECRET_KEY and GOD_PASSWORD explicitly.
*/
package cliparse
