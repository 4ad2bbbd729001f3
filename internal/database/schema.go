package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates the tables owned by the reservation service.  The
// properties table belongs to the catalog; it is created here only so a
// fresh development database has something to join against.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS properties (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		owner_id BIGINT UNSIGNED NOT NULL,
		owner_email VARCHAR(255) NOT NULL DEFAULT '',
		title VARCHAR(255) NOT NULL,
		status VARCHAR(32) NOT NULL DEFAULT 'available',
		max_guests INT NOT NULL DEFAULT 1,
		base_rate_cents BIGINT NOT NULL,
		weekend_rate_cents BIGINT NOT NULL DEFAULT 0,
		high_season_rate_cents BIGINT NOT NULL DEFAULT 0,
		KEY idx_properties_owner (owner_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		uuid CHAR(36) NOT NULL,
		property_id BIGINT UNSIGNED NOT NULL,
		guest_id BIGINT UNSIGNED NOT NULL,
		guest_name VARCHAR(255) NOT NULL DEFAULT '',
		guest_email VARCHAR(255) NOT NULL DEFAULT '',
		guest_phone VARCHAR(64) NOT NULL DEFAULT '',
		check_in DATE NOT NULL,
		check_out DATE NOT NULL,
		guests INT NOT NULL,
		nights INT NOT NULL,
		price_per_night_cents BIGINT NOT NULL,
		total_price_cents BIGINT NOT NULL,
		cleaning_fee_cents BIGINT NOT NULL,
		service_fee_cents BIGINT NOT NULL,
		final_price_cents BIGINT NOT NULL,
		refund_amount_cents BIGINT NOT NULL DEFAULT 0,
		status VARCHAR(16) NOT NULL,
		payment_status VARCHAR(16) NOT NULL,
		cancellation_reason VARCHAR(500) NOT NULL DEFAULT '',
		cancelled_by VARCHAR(16) NOT NULL DEFAULT '',
		confirmed_at DATETIME NULL,
		cancelled_at DATETIME NULL,
		completed_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_bookings_uuid (uuid),
		KEY idx_bookings_property_dates (property_id, status, check_in, check_out),
		KEY idx_bookings_guest (guest_id, created_at),
		KEY idx_bookings_status_dates (status, check_in, check_out)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS availability_blocks (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		property_id BIGINT UNSIGNED NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		block_type VARCHAR(16) NOT NULL,
		reason VARCHAR(500) NOT NULL DEFAULT '',
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		booking_id BIGINT UNSIGNED NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_blocks_property_dates (property_id, is_active, start_date, end_date),
		KEY idx_blocks_booking (booking_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS price_overrides (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		property_id BIGINT UNSIGNED NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		price_per_night_cents BIGINT NOT NULL,
		priority INT NOT NULL DEFAULT 0,
		description VARCHAR(500) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_overrides_property_dates (property_id, start_date, end_date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate applies the schema.  Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
