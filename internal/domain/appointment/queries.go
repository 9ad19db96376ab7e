package appointment

const dentalAppointmentsSQL = `
	SELECT
		x.description AS "Provider Name",
		m.event AS "Appointment Name",
		l.location_name AS "Location Name",
		z.appt_date AS "Appointment Date",
		z.begintime AS "Begin Time",
		z.appt_kept_ind AS "Kept Status?",
		z.description AS "Full Patient Name",
		CAST(pp.med_rec_nbr AS text) AS "MRN",
		CAST(q.date_of_birth AS date) AS "DOB",
		q.cell_phone AS "Phone Number",
		q.email_address AS "Email",
		q.language AS "Language",
		q.sex AS "Sex at Birth",
		z.workflow_status,
		z.cancel_ind,
		z.delete_ind
	FROM appointments z
	INNER JOIN location_mstr l ON l.location_id = z.location_id
	INNER JOIN provider_mstr x ON x.provider_id = z.rendering_provider_id
	INNER JOIN events m ON m.event_id = z.event_id
	INNER JOIN person q ON q.person_id = z.person_id
	LEFT JOIN patient pp ON pp.person_id = q.person_id
	WHERE z.appt_date = $1
		AND l.location_name LIKE '%' || $2 || '%'
		AND z.cancel_ind = 'N'
	ORDER BY z.appt_date ASC, z.begintime ASC`

const keptMedicalMRNsSQL = `
	SELECT DISTINCT CAST(pp.med_rec_nbr AS text) AS "MRN"
	FROM appointments z
	INNER JOIN location_mstr l ON l.location_id = z.location_id
	LEFT JOIN patient pp ON pp.person_id = z.person_id
	WHERE l.location_name NOT LIKE '%' || $1 || '%'
		AND z.appt_kept_ind = 'Y'`

const keptMedicalMRNsSinceSQL = keptMedicalMRNsSQL + `
		AND z.appt_date > $2`
