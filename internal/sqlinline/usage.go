package sqlinline

const QInsertUsageEvent = `--sql 64213b07-c07e-4ea9-a26a-bcdc3afc21f0
insert into usage_events (id, user_id, event_name, success, latency_ms, country, created_at, properties)
values (gen_random_uuid(), $1::text, $2::text, $3::boolean, $4::int, nullif($5::text, ''), now(), coalesce($6::jsonb, '{}'::jsonb));
`

const QStatsSummary = `--sql 070a8d7a-a49c-4b78-b176-3e4809899eb0
select
  (select count(*) from users) as total_users,
  (select coalesce(sum(designs_used), 0) from users) as designs_generated,
  (select count(*) from users where plan <> 'free') as paid_accounts,
  (select count(*) from usage_events where event_name = 'design_generated' and success) as generation_success,
  (select count(*) from usage_events where event_name = 'design_generated' and not success) as generation_fail,
  (select count(*) from usage_events where event_name = 'design_generated' and created_at > now() - interval '24 hours') as designs_last24;
`
