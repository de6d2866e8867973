package pg

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Fabianimipas/sistemmanajemendisposisi/internal/disposition"
)

var _ disposition.Store = (*Store)(nil)

func (s *Store) insertLog(ctx context.Context, tx *sql.Tx, entry disposition.AuditLogEntry) error {
	_, err := tx.ExecContext(ctx, `
		insert into log_proses (id_log, id_disposisi, aksi, status_lama, status_baru, tanggal, actor, catatan)
		values ($1, $2, $3, $4, $5, $6, $7, $8)
	`, entry.ID, entry.DispositionID, string(entry.Action), string(entry.PreviousStatus),
		string(entry.NewStatus), entry.Timestamp, entry.ActorName, entry.Note)
	return err
}

func (s *Store) InsertDisposition(ctx context.Context, d disposition.Disposition, entry disposition.AuditLogEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		insert into disposisi (
			id_disposisi, nomor_surat, tanggal_surat, asal_surat, hal, kutipan_surat,
			tanggal_disposisi, deadline, status, priority, link_disposisi,
			bukti_selesai, created_by, created_at, updated_by, updated_at
		) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`, d.ID, d.LetterNumber, d.LetterDate, d.Origin, d.Subject, d.Excerpt,
		d.ReceivedAt, d.Deadline, string(d.Status), string(d.Priority), d.ExternalLink,
		d.CompletionProof, d.CreatedBy, d.CreatedAt, d.UpdatedBy, d.UpdatedAt); err != nil {
		return err
	}
	if err := s.insertLog(ctx, tx, entry); err != nil {
		return err
	}
	return tx.Commit()
}

const dispositionColumns = `
	id_disposisi, nomor_surat, tanggal_surat, asal_surat, hal, kutipan_surat,
	tanggal_disposisi, deadline, status, priority, link_disposisi,
	tanggal_selesai, bukti_selesai, created_by, created_at, updated_by, updated_at`

func scanDisposition(row interface{ Scan(...any) error }) (disposition.Disposition, error) {
	var (
		d         disposition.Disposition
		status    string
		priority  string
		completed sql.NullTime
	)
	err := row.Scan(&d.ID, &d.LetterNumber, &d.LetterDate, &d.Origin, &d.Subject, &d.Excerpt,
		&d.ReceivedAt, &d.Deadline, &status, &priority, &d.ExternalLink,
		&completed, &d.CompletionProof, &d.CreatedBy, &d.CreatedAt, &d.UpdatedBy, &d.UpdatedAt)
	if err != nil {
		return disposition.Disposition{}, err
	}
	d.Status = disposition.Status(status)
	d.Priority = disposition.Priority(priority)
	if completed.Valid {
		t := completed.Time
		d.CompletionDate = &t
	}
	return d, nil
}

func (s *Store) GetDisposition(ctx context.Context, id string) (disposition.Disposition, error) {
	row := s.db.QueryRowContext(ctx, `select`+dispositionColumns+` from disposisi where id_disposisi = $1`, id)
	d, err := scanDisposition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return disposition.Disposition{}, disposition.ErrNotFound
	}
	if err != nil {
		return disposition.Disposition{}, err
	}
	return d, nil
}

func (s *Store) ListDispositions(ctx context.Context) ([]disposition.Disposition, error) {
	rows, err := s.db.QueryContext(ctx, `select`+dispositionColumns+` from disposisi order by tanggal_disposisi desc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []disposition.Disposition
	for rows.Next() {
		d, err := scanDisposition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ApplyStatus(ctx context.Context, upd disposition.StatusUpdate, entry disposition.AuditLogEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var res sql.Result
	if upd.CompletionDate != nil {
		res, err = tx.ExecContext(ctx, `
			update disposisi
			set status = $2, updated_by = $3, updated_at = $4, tanggal_selesai = $5, bukti_selesai = $6
			where id_disposisi = $1
		`, upd.DispositionID, string(upd.Status), upd.UpdatedBy, upd.UpdatedAt, *upd.CompletionDate, upd.CompletionProof)
	} else {
		res, err = tx.ExecContext(ctx, `
			update disposisi
			set status = $2, updated_by = $3, updated_at = $4
			where id_disposisi = $1
		`, upd.DispositionID, string(upd.Status), upd.UpdatedBy, upd.UpdatedAt)
	}
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return disposition.ErrNotFound
	}
	if err := s.insertLog(ctx, tx, entry); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) InsertAssignment(ctx context.Context, a disposition.Assignment, entry disposition.AuditLogEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// The partial unique index on (id_disposisi, id_user) where aktif
	// backs the one-active-assignment rule; concurrent inserts cannot
	// both land.
	if _, err := tx.ExecContext(ctx, `
		insert into disposisi_pic (id_disposisi, id_user, peran, aktif, created_at)
		values ($1, $2, $3, $4, $5)
	`, a.DispositionID, a.UserID, string(a.RoleLabel), a.Active, a.CreatedAt); err != nil {
		if pgErr, ok := maybePgError(err); ok {
			switch pgErr.Code {
			case pgErrUniqueViolation:
				return disposition.ErrAlreadyAssigned
			case pgErrForeignKeyViolation:
				return disposition.ErrNotFound
			}
		}
		return err
	}
	if err := s.insertLog(ctx, tx, entry); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) ActiveAssignments(ctx context.Context, dispositionID string) ([]disposition.AssignmentView, error) {
	rows, err := s.db.QueryContext(ctx, `
		select p.id_user, coalesce(a.nama, ''), coalesce(a.nip, ''), p.peran
		from disposisi_pic p
		left join akun a on a.id_user = p.id_user
		where p.id_disposisi = $1 and p.aktif
		order by p.id
	`, dispositionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []disposition.AssignmentView
	for rows.Next() {
		var (
			v     disposition.AssignmentView
			label string
		)
		if err := rows.Scan(&v.UserID, &v.Name, &v.NIP, &label); err != nil {
			return nil, err
		}
		v.RoleLabel = disposition.RoleLabel(label)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) AssignedDispositionIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id_disposisi from disposisi_pic where id_user = $1 and aktif
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) InsertProgress(ctx context.Context, p disposition.ProgressEntry) error {
	_, err := s.db.ExecContext(ctx, `
		insert into disposisi_progres (id_progres, id_disposisi, tanggal, progres, catatan, dibuat_oleh, role, lampiran)
		values ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.DispositionID, p.Timestamp, p.Description, p.Note, p.AuthorName, p.AuthorRole, p.Attachment)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
			return disposition.ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Store) ListProgress(ctx context.Context, dispositionID string) ([]disposition.ProgressEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id_progres, id_disposisi, tanggal, progres, catatan, dibuat_oleh, role, lampiran
		from disposisi_progres
		where id_disposisi = $1
		order by tanggal desc
	`, dispositionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []disposition.ProgressEntry
	for rows.Next() {
		var p disposition.ProgressEntry
		if err := rows.Scan(&p.ID, &p.DispositionID, &p.Timestamp, &p.Description, &p.Note, &p.AuthorName, &p.AuthorRole, &p.Attachment); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) InsertStatusRef(ctx context.Context, ref disposition.StatusRef) error {
	_, err := s.db.ExecContext(ctx, `
		insert into status_disposisi (kode, label, urutan, final) values ($1, $2, $3, $4)
		on conflict (kode) do nothing
	`, string(ref.Code), ref.Label, ref.Order, ref.Final)
	return err
}

func (s *Store) ListStatusRefs(ctx context.Context) ([]disposition.StatusRef, error) {
	rows, err := s.db.QueryContext(ctx, `select kode, label, urutan, final from status_disposisi order by urutan`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []disposition.StatusRef
	for rows.Next() {
		var (
			ref  disposition.StatusRef
			code string
		)
		if err := rows.Scan(&code, &ref.Label, &ref.Order, &ref.Final); err != nil {
			return nil, err
		}
		ref.Code = disposition.Status(code)
		out = append(out, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ListLogs(ctx context.Context, dispositionID string) ([]disposition.AuditLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id_log, id_disposisi, aksi, status_lama, status_baru, tanggal, actor, catatan
		from log_proses
		where id_disposisi = $1
		order by tanggal desc
	`, dispositionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []disposition.AuditLogEntry
	for rows.Next() {
		var (
			entry     disposition.AuditLogEntry
			action    string
			oldStatus string
			newStatus string
		)
		if err := rows.Scan(&entry.ID, &entry.DispositionID, &action, &oldStatus, &newStatus, &entry.Timestamp, &entry.ActorName, &entry.Note); err != nil {
			return nil, err
		}
		entry.Action = disposition.Action(action)
		entry.PreviousStatus = disposition.Status(oldStatus)
		entry.NewStatus = disposition.Status(newStatus)
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
